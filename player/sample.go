package player

import (
	"log"
	"path"

	"github.com/toid-audio/toid"
	"github.com/toid-audio/toid/wave"
)

type (
	// SamplePlayer renders tracks of SampleNotes with a drum kit. Each note
	// plays its sound from the beginning to the end of the sound's data.
	SamplePlayer struct {
		hits    activeNotes[hit]
		effects effectChain
		Logger  *log.Logger
	}

	hit struct {
		note  toid.SampleNote
		sound *wave.Wave
	}
)

func NewSamplePlayer() *SamplePlayer {
	return &SamplePlayer{hits: activeNotes[hit]{}, Logger: log.Default()}
}

// Clean forgets every sounding note and the cached effect chain.
func (p *SamplePlayer) Clean() {
	p.hits = activeNotes[hit]{}
	p.effects.reset()
}

// ActiveNotes returns the currently scheduled note occurrences, ordered by
// their end sample.
func (p *SamplePlayer) ActiveNotes() []ActiveNote[toid.SampleNote] {
	var ret []ActiveNote[toid.SampleNote]
	p.hits.each(func(start, end uint64, h hit) {
		ret = append(ret, ActiveNote[toid.SampleNote]{Start: start, End: end, Note: h.note})
	})
	return ret
}

// Play renders the next block of track, with the same scheduling rules as
// PitchPlayer.Play. The sounds are looked up from provider as
// "<kit>/<sound>"; unknown sounds are logged and skipped.
func (p *SamplePlayer) Play(track *toid.Track[toid.SampleNote], provider toid.ResourceProvider, cumSamples uint64, cumBeats toid.Beat, bpm float64) toid.AudioBuffer {
	if p.hits == nil {
		p.hits = activeNotes[hit]{}
	}
	logger := p.logger()
	buf := toid.NewAudioBuffer(toid.BlockLength)
	nextCumSamples := cumSamples + toid.BlockLength
	kit := track.Instrument

	window(track.Phrase, cumSamples, cumBeats, bpm, func(start uint64, notes []toid.SampleNote) {
		if kit.Kind != toid.Kit {
			logger.Printf("track %q: instrument %v cannot play samples", track.Name, kit.Kind)
			return
		}
		if provider == nil {
			logger.Printf("kit %q: no resource provider", kit.Name)
			return
		}
		for _, note := range notes {
			sound, err := provider.Wave(path.Join(kit.Name, note.Sound))
			if err != nil {
				logger.Printf("kit %q sound %q: %v", kit.Name, note.Sound, err)
				continue
			}
			p.hits.add(start, start+uint64(sound.SampleNum), hit{note: note, sound: sound})
		}
	})

	vol, pan := track.Levels()
	gain := samplerGain * vol
	p.hits.each(func(start, end uint64, h hit) {
		startIdx, endIdx := span(start, end, cumSamples)
		if endIdx <= startIdx {
			return
		}
		offset := int(int64(cumSamples) - int64(start))
		left, right := h.sound.GetSamples(offset+startIdx, offset+endIdx)
		for i := range left {
			j := startIdx + i
			buf.Left[j] += (1 - pan) * left[i] * gain
			buf.Right[j] += (1 + pan) * right[i] * gain
		}
	})

	p.effects.refresh(track.Effects, provider, logger)
	buf = p.effects.apply(buf, logger)

	p.hits.retire(cumSamples, nextCumSamples)
	return buf
}

func (p *SamplePlayer) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}
