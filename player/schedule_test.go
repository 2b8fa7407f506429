package player

import (
	"math"
	"reflect"
	"testing"

	"github.com/toid-audio/toid"
)

func TestWindowRegistersOncePerLoop(t *testing.T) {
	cases := []struct {
		name   string
		bpm    float64
		length float64
		start  float64
	}{
		{"mid loop", 120, 1, 0.3},
		{"at loop start", 120, 1, 0},
		{"just before wrap", 97, 2, 1.999},
		{"block boundary on wrap", 1291.9921875, 1, 0}, // a block is exactly 0.25 beats
		{"block boundary on note", 1291.9921875, 1, 0.75},
		{"loop shorter than block", 20000, 0.125, 0.1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			start := toid.NewBeat(c.start)
			length := toid.NewBeat(c.length)
			phrase := toid.NewPhrase[toid.PitchNote]().
				AddNote(toid.PitchNote{Pitch: 60, Start: start, Duration: toid.NewBeat(0.1)}).
				SetLength(length)
			blockBeats := toid.BlockBeats(c.bpm)
			var (
				cumSamples uint64
				cumBeats   toid.Beat
				got        []uint64
			)
			const blocks = 2000
			for i := 0; i < blocks; i++ {
				window(phrase, cumSamples, cumBeats, c.bpm, func(s uint64, notes []toid.PitchNote) {
					for range notes {
						got = append(got, s)
					}
				})
				cumSamples += toid.BlockLength
				cumBeats = cumBeats.Add(blockBeats)
			}
			var want []toid.Beat
			for b := start; b < cumBeats; b = b.Add(length) {
				want = append(want, b)
			}
			if len(got) != len(want) {
				t.Fatalf("got %d registrations, want %d", len(got), len(want))
			}
			samplesPerBeat := toid.SampleRate * 60 / c.bpm
			blockDrift := float64(blockBeats)/toid.TicksPerBeat*samplesPerBeat - toid.BlockLength
			for i, b := range want {
				expected := b.Float64() * samplesPerBeat
				tolerance := 1 + math.Abs(blockDrift)*blocks
				if math.Abs(float64(got[i])-expected) > tolerance {
					t.Errorf("occurrence %d registered at sample %d, want about %.1f", i, got[i], expected)
				}
				if i > 0 && got[i] <= got[i-1] {
					t.Errorf("occurrence %d at sample %d not after the previous one at %d", i, got[i], got[i-1])
				}
			}
		})
	}
}

func TestWindowSkipsDegenerateInput(t *testing.T) {
	phrase := toid.NewPhrase[toid.PitchNote]().AddNote(toid.PitchNote{Pitch: 60})
	called := false
	fn := func(uint64, []toid.PitchNote) { called = true }
	window(phrase, 0, 0, 120, fn) // zero length
	window(phrase.SetLength(toid.NewBeat(1)), 0, 0, 0, fn)
	window(phrase.SetLength(toid.NewBeat(1)), 0, 0, math.NaN(), fn)
	if called {
		t.Error("window reported notes for a zero length phrase or a non-positive tempo")
	}
}

func TestSpan(t *testing.T) {
	cases := []struct {
		start, end, cum uint64
		from, to        int
	}{
		{0, 10000, 0, 0, 512},
		{100, 200, 0, 100, 200},
		{100, 200, 512, 0, 0},
		{600, 700, 512, 88, 188},
		{600, 2000, 512, 88, 512},
		{0, 1024, 512, 0, 512},
		{0, 1023, 512, 0, 511},
		{100, 100, 0, 100, 100},
	}
	for _, c := range cases {
		from, to := span(c.start, c.end, c.cum)
		if from != c.from || to != c.to {
			t.Errorf("span(%d, %d, %d) = %d, %d; want %d, %d", c.start, c.end, c.cum, from, to, c.from, c.to)
		}
	}
}

func TestActiveNotesRetire(t *testing.T) {
	a := activeNotes[string]{}
	a.add(0, 100, "a")
	a.add(50, 100, "b")
	a.add(10, 600, "c")
	a.add(0, 512, "d")
	a.retire(0, 512)
	want := []ActiveNote[string]{{Start: 0, End: 512, Note: "d"}, {Start: 10, End: 600, Note: "c"}}
	if got := a.list(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
