package resource

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/toid-audio/toid"
	"github.com/toid-audio/toid/wave"
)

var ErrNoRegion = errors.New("no sample region for pitch")

type (
	// Bank is a sampled instrument: a list of presets, each mapping MIDI keys
	// to recorded samples. All pitch shifting is done when a preset is added,
	// so Samples only copies memory. Presets may be added while other
	// goroutines read from the bank.
	Bank struct {
		mu      sync.RWMutex
		presets []Preset
	}

	// Preset maps MIDI keys to the pitch shifted waves of its regions.
	Preset struct {
		Name string
		keys [128]*wave.Wave
	}

	// Region assigns a recorded sample to the keys Low..High (inclusive). The
	// sample sounds at the pitch Root when played unshifted.
	Region struct {
		Wave *wave.Wave
		Root uint8
		Low  uint8
		High uint8
	}
)

func NewBank() *Bank {
	return &Bank{}
}

// AddPreset appends a preset built from the given regions and returns its
// index. Where regions overlap, the later one wins.
func (b *Bank) AddPreset(name string, regions ...Region) (int, error) {
	p := Preset{Name: name}
	for i, r := range regions {
		if r.Wave == nil {
			return 0, fmt.Errorf("preset %q region %d: no wave", name, i)
		}
		if r.Low > r.High || r.High > 127 {
			return 0, fmt.Errorf("preset %q region %d: invalid key range %d..%d", name, i, r.Low, r.High)
		}
		src := r.Wave
		if src.SampleRate != toid.SampleRate {
			src = src.ChangeSampleRate(toid.SampleRate)
		}
		for k := int(r.Low); k <= int(r.High); k++ {
			p.keys[k] = shift(src, k-int(r.Root))
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presets = append(b.presets, p)
	return len(b.presets) - 1, nil
}

// NumPresets returns the number of presets in the bank.
func (b *Bank) NumPresets() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.presets)
}

// Samples implements toid.SampleResource.
func (b *Bank) Samples(preset int, pitch uint8, start, end int) (left, right []float32, err error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if preset < 0 || preset >= len(b.presets) {
		return nil, nil, fmt.Errorf("preset %d out of range, bank has %d presets", preset, len(b.presets))
	}
	if pitch > 127 || b.presets[preset].keys[pitch] == nil {
		return nil, nil, fmt.Errorf("%w %d in preset %q", ErrNoRegion, pitch, b.presets[preset].Name)
	}
	left, right = b.presets[preset].keys[pitch].GetSamples(start, end)
	return left, right, nil
}

// shift transposes w by the given number of semitones, changing its length.
func shift(w *wave.Wave, semitones int) *wave.Wave {
	if semitones == 0 {
		return w
	}
	ratio := math.Pow(2, float64(semitones)/12)
	src := *w
	src.SampleRate = toid.SampleRate * ratio
	return src.ChangeSampleRate(toid.SampleRate)
}
