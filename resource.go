package toid

import "github.com/toid-audio/toid/wave"

type (
	// ResourceProvider supplies sample data to the players and the effects.
	// It is shared by all players of a session, possibly rendering in
	// parallel, so implementations must be safe for concurrent reads, and
	// lookups must not block on I/O.
	ResourceProvider interface {
		// SampleResource returns the sampled instrument with the given name.
		SampleResource(name string) (SampleResource, error)
		// Wave returns a named wave, e.g. a drum kit sound "kit/sound" or an
		// impulse response, at SampleRate.
		Wave(name string) (*wave.Wave, error)
	}

	// SampleResource is a sampled instrument with one or more presets.
	SampleResource interface {
		// Samples returns the frames [start, end) of the given preset playing
		// the given MIDI pitch, counted from the start of the note. Both
		// returned slices have length end-start.
		Samples(preset int, pitch uint8, start, end int) (left, right []float32, err error)
	}
)
