package driver_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/toid-audio/toid"
	"github.com/toid-audio/toid/driver"
	"github.com/toid-audio/toid/player"
	"github.com/toid-audio/toid/resource"
	"github.com/toid-audio/toid/wave"
)

func testSong() toid.Song {
	melody := toid.NewPhrase[toid.PitchNote]().
		AddNote(toid.PitchNote{Pitch: 60, Start: 0, Duration: toid.NewBeat(0.5)}).
		AddNote(toid.PitchNote{Pitch: 64, Start: toid.NewBeat(0.5), Duration: toid.NewBeat(0.5)}).
		SetLength(toid.NewBeat(1))
	bass := toid.NewPhrase[toid.PitchNote]().
		AddNote(toid.PitchNote{Pitch: 36, Start: 0, Duration: toid.NewBeat(2)}).
		SetLength(toid.NewBeat(2))
	beat := toid.NewPhrase[toid.SampleNote]().
		AddNote(toid.SampleNote{Sound: "kick", Start: 0}).
		AddNote(toid.SampleNote{Sound: "kick", Start: toid.NewBeat(0.5)}).
		SetLength(toid.NewBeat(1))
	return toid.Song{
		BPM: 240,
		Tracks: []toid.Track[toid.PitchNote]{
			{Name: "melody", Phrase: melody, Instrument: toid.Tri(), Vol: 0.7, Pan: -0.2},
			{Name: "bass", Phrase: bass, Instrument: toid.Saw(), Vol: 0.5},
		},
		Drums: []toid.Track[toid.SampleNote]{
			{Name: "beat", Phrase: beat, Instrument: toid.DrumKit("kit"), Vol: 1, Pan: 0.3},
		},
	}
}

func testResources() *resource.Manager {
	kick := make([]float32, 3000)
	for i := range kick {
		kick[i] = float32(math.Sin(float64(i) / 20))
	}
	m := resource.NewManager()
	m.AddWave("kit/kick", wave.NewMono(kick, 44100))
	return m
}

func TestNextMixesTracks(t *testing.T) {
	song := testSong()
	m := testResources()
	d := driver.New(song, m)
	players := []*player.PitchPlayer{player.NewPitchPlayer(), player.NewPitchPlayer()}
	drums := player.NewSamplePlayer()
	var (
		cumSamples uint64
		cumBeats   toid.Beat
	)
	for block := 0; block < 50; block++ {
		got := d.Next()
		want := toid.NewAudioBuffer(toid.BlockLength)
		for i, p := range players {
			want.Mix(p.Play(&song.Tracks[i], m, cumSamples, cumBeats, song.BPM))
		}
		want.Mix(drums.Play(&song.Drums[0], m, cumSamples, cumBeats, song.BPM))
		for i := range want.Left {
			if math.Abs(float64(got.Left[i]-want.Left[i])) > 1e-6 || math.Abs(float64(got.Right[i]-want.Right[i])) > 1e-6 {
				t.Fatalf("block %d frame %d = %v/%v, want %v/%v", block, i, got.Left[i], got.Right[i], want.Left[i], want.Right[i])
			}
		}
		cumSamples += toid.BlockLength
		cumBeats = cumBeats.Add(toid.BlockBeats(song.BPM))
		if s, b := d.Position(); s != cumSamples || b != cumBeats {
			t.Fatalf("position after block %d = %d/%v, want %d/%v", block, s, b, cumSamples, cumBeats)
		}
	}
}

func TestParallelismDoesNotChangeOutput(t *testing.T) {
	serial := driver.New(testSong(), testResources())
	serial.Parallel = 1
	parallel := driver.New(testSong(), testResources())
	a := serial.Render(40)
	b := parallel.Render(40)
	if !reflect.DeepEqual(a, b) {
		t.Error("rendering tracks in parallel changed the output")
	}
}

func TestRender(t *testing.T) {
	d := driver.New(testSong(), testResources())
	if got := d.Render(3).Len(); got != 3*toid.BlockLength {
		t.Errorf("Render(3) gave %d frames", got)
	}
	if got := d.RenderSeconds(0.02).Len(); got != 2*toid.BlockLength {
		t.Errorf("RenderSeconds(0.02) gave %d frames, want 2 blocks", got)
	}
	if got := d.Render(0).Len(); got != 0 {
		t.Errorf("Render(0) gave %d frames", got)
	}
	if s, _ := d.Position(); s != 5*toid.BlockLength {
		t.Errorf("position %d after 5 blocks", s)
	}
}

func TestStopRewinds(t *testing.T) {
	song := testSong()
	song.Tracks[0].Effects = []toid.EffectInfo{{Type: "test_echo"}}
	toid.RegisterEffect("test_echo", func(toid.EffectInfo, toid.ResourceProvider) (toid.Effect, error) {
		return &echo{}, nil
	})
	d := driver.New(song, testResources())
	first := d.Render(20)
	d.Stop()
	if s, b := d.Position(); s != 0 || b != 0 {
		t.Errorf("position after Stop = %d/%v", s, b)
	}
	if again := d.Render(20); !reflect.DeepEqual(first, again) {
		t.Error("rendering after Stop differs from the first rendering")
	}
}

// echo adds the previous block to the current one, so it is stateful.
type echo struct {
	prev [2][]float32
}

func (e *echo) Process(left, right []float32) ([]float32, []float32) {
	outLeft := append([]float32(nil), left...)
	outRight := append([]float32(nil), right...)
	for i := range e.prev[0] {
		outLeft[i] += e.prev[0][i]
		outRight[i] += e.prev[1][i]
	}
	e.prev = [2][]float32{left, right}
	return outLeft, outRight
}

func TestSetSongKeepsMatchingPlayers(t *testing.T) {
	long := toid.NewPhrase[toid.PitchNote]().
		AddNote(toid.PitchNote{Pitch: 60, Start: 0, Duration: toid.NewBeat(4)}).
		SetLength(toid.NewBeat(8))
	song := toid.Song{BPM: 120, Tracks: []toid.Track[toid.PitchNote]{{Name: "pad", Phrase: long, Instrument: toid.Sin(), Vol: 1}}}

	d := driver.New(song, nil)
	d.Next()
	edited := song.Copy()
	edited.Tracks[0].Phrase = toid.NewPhrase[toid.PitchNote]().SetLength(toid.NewBeat(8))
	d.SetSong(edited)
	if silent(d.Next()) {
		t.Error("the sounding note of a kept track stopped")
	}

	d = driver.New(song, nil)
	d.Next()
	renamed := edited.Copy()
	renamed.Tracks[0].Name = "other"
	d.SetSong(renamed)
	if !silent(d.Next()) {
		t.Error("a new track inherited the notes of the old one")
	}
}

func silent(b toid.AudioBuffer) bool {
	for i := range b.Left {
		if b.Left[i] != 0 || b.Right[i] != 0 {
			return false
		}
	}
	return true
}

func TestSetBPM(t *testing.T) {
	d := driver.New(testSong(), nil)
	d.SetBPM(120)
	if d.BPM() != 120 {
		t.Errorf("BPM() = %v", d.BPM())
	}
	d.Next()
	if _, b := d.Position(); b != toid.BlockBeats(120) {
		t.Errorf("advanced %v beats, want %v", b, toid.BlockBeats(120))
	}
	d.SetBPM(0)
	d.Next()
	if _, b := d.Position(); b != toid.BlockBeats(120) {
		t.Errorf("a zero tempo advanced the beat to %v", b)
	}
}

func TestMissingResourcesAreLogged(t *testing.T) {
	var logs bytes.Buffer
	d := driver.New(testSong(), resource.NewManager())
	d.SetLogger(log.New(&logs, "", 0))
	if got := d.Next(); got.Len() != toid.BlockLength {
		t.Errorf("got %d frames", got.Len())
	}
	if !strings.Contains(logs.String(), "kick") {
		t.Errorf("missing drum sound not logged: %q", logs)
	}
}

type sink struct {
	blocks int
	cancel context.CancelFunc
	err    error
}

func (s *sink) WriteAudio(buffer toid.AudioBuffer) error {
	s.blocks++
	if s.blocks == 3 && s.cancel != nil {
		s.cancel()
	}
	if s.blocks == 3 {
		return s.err
	}
	return nil
}

func (s *sink) Close() error { return nil }

func TestPlay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := &sink{cancel: cancel}
	d := driver.New(testSong(), testResources())
	if err := d.Play(ctx, s); !errors.Is(err, context.Canceled) {
		t.Errorf("Play returned %v, want context.Canceled", err)
	}
	if s.blocks != 3 {
		t.Errorf("wrote %d blocks, want 3", s.blocks)
	}

	broken := errors.New("device gone")
	s = &sink{err: broken}
	if err := d.Play(context.Background(), s); !errors.Is(err, broken) {
		t.Errorf("Play returned %v, want %v", err, broken)
	}
}
