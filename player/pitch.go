// Package player renders tracks block by block. A player keeps the notes that
// are currently sounding between calls, so every track gets its own player,
// and calls on one player must be made in order, one block at a time.
package player

import (
	"log"
	"math"

	"github.com/toid-audio/toid"
)

const (
	oscillatorGain = 0.3
	samplerGain    = 0.5
)

// PitchPlayer renders tracks of PitchNotes with the built-in oscillators or a
// sampled instrument.
type PitchPlayer struct {
	notes   activeNotes[toid.PitchNote]
	effects effectChain
	Logger  *log.Logger
}

func NewPitchPlayer() *PitchPlayer {
	return &PitchPlayer{notes: activeNotes[toid.PitchNote]{}, Logger: log.Default()}
}

// Clean forgets every sounding note and the cached effect chain, e.g. when the
// playback restarts or seeks.
func (p *PitchPlayer) Clean() {
	p.notes = activeNotes[toid.PitchNote]{}
	p.effects.reset()
}

// ActiveNotes returns the currently scheduled note occurrences, ordered by
// their end sample.
func (p *PitchPlayer) ActiveNotes() []ActiveNote[toid.PitchNote] {
	return p.notes.list()
}

// Play renders the next block of toid.BlockLength frames of track.
// cumSamples and cumBeats are the position reached so far in the session, and
// bpm the current tempo. Lookup failures are logged and render as silence;
// Play always returns a full block.
func (p *PitchPlayer) Play(track *toid.Track[toid.PitchNote], provider toid.ResourceProvider, cumSamples uint64, cumBeats toid.Beat, bpm float64) toid.AudioBuffer {
	if p.notes == nil {
		p.notes = activeNotes[toid.PitchNote]{}
	}
	logger := p.logger()
	buf := toid.NewAudioBuffer(toid.BlockLength)
	nextCumSamples := cumSamples + toid.BlockLength

	window(track.Phrase, cumSamples, cumBeats, bpm, func(start uint64, notes []toid.PitchNote) {
		for _, note := range notes {
			length := uint64(max(note.Duration, 0).Samples(bpm))
			p.notes.add(start, start+length, note)
		}
	})

	vol, pan := track.Levels()
	switch kind := track.Instrument.Kind; {
	case kind.IsOscillator():
		p.oscillate(buf, oscillator(kind), cumSamples, vol, pan)
	case kind == toid.Bank:
		p.sample(buf, track.Instrument, provider, cumSamples, vol, pan, logger)
	case len(p.notes) > 0:
		logger.Printf("track %q: instrument %v cannot play pitched notes", track.Name, kind)
	}

	p.effects.refresh(track.Effects, provider, logger)
	buf = p.effects.apply(buf, logger)

	p.notes.retire(cumSamples, nextCumSamples)
	return buf
}

func (p *PitchPlayer) oscillate(buf toid.AudioBuffer, wave func(float64) float64, cumSamples uint64, vol, pan float32) {
	gain := oscillatorGain * float64(vol)
	p.notes.each(func(start, end uint64, note toid.PitchNote) {
		startIdx, endIdx := span(start, end, cumSamples)
		hertzPerSample := note.Pitch.Hertz() / toid.SampleRate
		for i := startIdx; i < endIdx; i++ {
			x := float64(cumSamples+uint64(i)-start) * hertzPerSample * 2 * math.Pi
			addition := float32(wave(x) * gain)
			buf.Left[i] += (1 - pan) * addition
			buf.Right[i] += (1 + pan) * addition
		}
	})
}

func (p *PitchPlayer) sample(buf toid.AudioBuffer, instr toid.Instrument, provider toid.ResourceProvider, cumSamples uint64, vol, pan float32, logger *log.Logger) {
	if len(p.notes) == 0 {
		return
	}
	if provider == nil {
		logger.Printf("sample bank %q: no resource provider", instr.Name)
		return
	}
	res, err := provider.SampleResource(instr.Name)
	if err != nil {
		logger.Printf("sample bank %q: %v", instr.Name, err)
		return
	}
	gain := samplerGain * vol
	p.notes.each(func(start, end uint64, note toid.PitchNote) {
		startIdx, endIdx := span(start, end, cumSamples)
		if endIdx <= startIdx {
			return
		}
		offset := int(int64(cumSamples) - int64(start)) // frames of the note played before this block
		left, right, err := res.Samples(instr.Preset, note.Pitch.MIDI(), offset+startIdx, offset+endIdx)
		if err != nil {
			logger.Printf("sample bank %q preset %d pitch %v: %v", instr.Name, instr.Preset, note.Pitch, err)
			return
		}
		n := min(endIdx-startIdx, len(left), len(right))
		for i := 0; i < n; i++ {
			j := startIdx + i
			buf.Left[j] += (1 - pan) * left[i] * gain
			buf.Right[j] += (1 + pan) * right[i] * gain
		}
	})
}

func (p *PitchPlayer) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}
