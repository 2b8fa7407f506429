package toid_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/toid-audio/toid"
	"gopkg.in/yaml.v3"
)

const songYAML = `bpm: 120
tracks:
  - name: lead
    instrument: {kind: sawtooth}
    vol: 0.5
    pan: -0.25
    effects:
      - {type: delay, parameters: {time: 0.5, feedback: 0.3}}
    phrase:
      length: 2
      notes: [{pitch: 69, start: 0, duration: 0.5}]
  - name: keys
    instrument: {kind: bank, name: piano, preset: 1}
    vol: 1
    phrase: {length: 1, notes: []}
drums:
  - name: beat
    instrument: {kind: kit, name: "808"}
    vol: 0.8
    phrase:
      length: 1
      notes: [{sound: kick, start: 0}, {sound: snare, start: 0.5}]
`

func TestLoadSong(t *testing.T) {
	song, err := toid.LoadSong([]byte(songYAML))
	if err != nil {
		t.Fatalf("could not load song: %v", err)
	}
	if err := song.Validate(); err != nil {
		t.Errorf("valid song rejected: %v", err)
	}
	if song.BPM != 120 || len(song.Tracks) != 2 || len(song.Drums) != 1 {
		t.Fatalf("got bpm %v with %d tracks and %d drum tracks", song.BPM, len(song.Tracks), len(song.Drums))
	}
	lead := song.Tracks[0]
	if lead.Instrument != toid.Saw() || lead.Vol != 0.5 || lead.Pan != -0.25 {
		t.Errorf("lead track decoded as %+v", lead)
	}
	wantEffects := []toid.EffectInfo{{Type: "delay", Parameters: map[string]float64{"time": 0.5, "feedback": 0.3}}}
	if !toid.EffectInfosEqual(lead.Effects, wantEffects) {
		t.Errorf("got effects %v, want %v", lead.Effects, wantEffects)
	}
	if got := lead.Phrase.NoteVec(); !reflect.DeepEqual(got, []toid.PitchNote{note(69, 0, 0.5)}) {
		t.Errorf("got notes %v", got)
	}
	if song.Tracks[1].Instrument != toid.SampleBank("piano", 1) {
		t.Errorf("keys instrument decoded as %+v", song.Tracks[1].Instrument)
	}
	drums := song.Drums[0]
	if drums.Instrument != toid.DrumKit("808") || drums.Phrase.Len() != 2 {
		t.Errorf("drum track decoded as %+v", drums)
	}
	if song.Length() != toid.NewBeat(2) {
		t.Errorf("song length %v, want 2 beats", song.Length())
	}

	// saving and loading gives back the same song
	b, err := yaml.Marshal(song)
	if err != nil {
		t.Fatal(err)
	}
	again, err := toid.LoadSong(b)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Tracks[0].Phrase.Equal(lead.Phrase) || again.Drums[0].Instrument != drums.Instrument {
		t.Error("song changed after saving and loading")
	}
}

func TestLoadSongJSON(t *testing.T) {
	song, err := toid.LoadSong([]byte(`{"bpm": 90, "tracks": [{"instrument": {"kind": "triangle"}, "vol": 1, "pan": 0, "phrase": {"length": 1, "notes": [{"pitch": 60, "start": 0.5, "duration": 0.25}]}}]}`))
	if err != nil {
		t.Fatalf("could not load song: %v", err)
	}
	if song.BPM != 90 || song.Tracks[0].Instrument.Kind != toid.Triangle || song.Tracks[0].Phrase.Len() != 1 {
		t.Errorf("decoded %+v", song)
	}
	if _, err := toid.LoadSong([]byte("bpm: [")); err == nil {
		t.Error("expected an error for garbage")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		vol     float32
		pan     float32
		wantErr bool
	}{
		{"valid", 0.5, 0, false},
		{"edges", 1, -1, false},
		{"silent", 0, 1, false},
		{"loud", 1.1, 0, true},
		{"negative volume", -0.1, 0, true},
		{"hard left", 0.5, -1.5, true},
		{"nan", float32(math.NaN()), 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			track := toid.Track[toid.PitchNote]{Vol: c.vol, Pan: c.pan}
			if err := track.Validate(); (err != nil) != c.wantErr {
				t.Errorf("Validate() = %v, want error: %v", err, c.wantErr)
			}
		})
	}
	song := toid.Song{BPM: 0, Drums: []toid.Track[toid.SampleNote]{{Vol: 2}}}
	if err := song.Validate(); err == nil {
		t.Error("expected an error for a song with zero BPM and a loud drum track")
	}
}

func TestLevels(t *testing.T) {
	cases := []struct {
		vol, pan, wantVol, wantPan float32
	}{
		{0.5, 0.5, 0.5, 0.5},
		{2, -3, 1, -1},
		{-1, 3, 0, 1},
		{float32(math.NaN()), float32(math.NaN()), 0, 0},
	}
	for _, c := range cases {
		track := toid.Track[toid.PitchNote]{Vol: c.vol, Pan: c.pan}
		if vol, pan := track.Levels(); vol != c.wantVol || pan != c.wantPan {
			t.Errorf("Levels() of %v/%v = %v/%v, want %v/%v", c.vol, c.pan, vol, pan, c.wantVol, c.wantPan)
		}
	}
}

func TestInstrumentKind(t *testing.T) {
	for _, k := range []toid.InstrumentKind{toid.Unsupported, toid.Sine, toid.Triangle, toid.Sawtooth, toid.Bank, toid.Kit} {
		if got := toid.ParseInstrumentKind(k.String()); got != k {
			t.Errorf("ParseInstrumentKind(%q) = %v", k.String(), got)
		}
	}
	if toid.ParseInstrumentKind("theremin") != toid.Unsupported || toid.InstrumentKind(42).String() != "unsupported" {
		t.Error("unknown kinds should be unsupported")
	}
	if !toid.Sine.IsOscillator() || toid.Bank.IsOscillator() {
		t.Error("IsOscillator")
	}
}

func TestSongCopy(t *testing.T) {
	song := toid.Song{BPM: 100, Tracks: []toid.Track[toid.PitchNote]{{Effects: []toid.EffectInfo{{Type: "gain", Parameters: map[string]float64{"gain": 1}}}}}}
	c := song.Copy()
	c.Tracks[0].Effects[0].Parameters["gain"] = 2
	c.Tracks[0].Vol = 1
	if song.Tracks[0].Effects[0].Parameters["gain"] != 1 || song.Tracks[0].Vol != 0 {
		t.Error("modifying a copy changed the original")
	}
}

func TestAudioBuffer(t *testing.T) {
	a := toid.AudioBuffer{Left: []float32{1, 2, 3}, Right: []float32{4, 5, 6}}
	a.Mix(toid.AudioBuffer{Left: []float32{1, 1}, Right: []float32{-1, -1}})
	if !reflect.DeepEqual(a.Left, []float32{2, 3, 3}) || !reflect.DeepEqual(a.Right, []float32{3, 4, 6}) {
		t.Errorf("Mix gave %v %v", a.Left, a.Right)
	}
	if got := a.Interleaved(); !reflect.DeepEqual(got, []float32{2, 3, 3, 4, 3, 6}) {
		t.Errorf("Interleaved gave %v", got)
	}
	b := toid.NewAudioBuffer(2).Append(a)
	if b.Len() != 5 || b.Left[2] != 2 {
		t.Errorf("Append gave %v", b)
	}
	w := a.Wave()
	if w.Channels() != 2 || w.SampleNum != 3 || w.SampleRate != toid.SampleRate {
		t.Errorf("Wave gave %d channels, %d frames at %v Hz", w.Channels(), w.SampleNum, w.SampleRate)
	}
}
