package toid

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Song is everything a driver needs to play: the tempo and the tracks. Tracks
// hold pitched phrases (oscillators, sample banks) and Drums hold phrases of
// sample triggers played with drum kits.
type Song struct {
	BPM    float64             `yaml:"bpm" json:"bpm"`
	Tracks []Track[PitchNote]  `yaml:"tracks,omitempty" json:"tracks,omitempty"`
	Drums  []Track[SampleNote] `yaml:"drums,omitempty" json:"drums,omitempty"`
}

// LoadSong parses a song from .json or .yml contents.
func LoadSong(data []byte) (Song, error) {
	var song Song
	if errJSON := json.Unmarshal(data, &song); errJSON != nil {
		song = Song{}
		if errYaml := yaml.Unmarshal(data, &song); errYaml != nil {
			return Song{}, fmt.Errorf("the song could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return song, nil
}

// Validate checks that the BPM is positive and every track has valid levels.
func (s *Song) Validate() error {
	var errs []error
	if !(s.BPM > 0) {
		errs = append(errs, errors.New("BPM should be > 0"))
	}
	for i := range s.Tracks {
		errs = append(errs, s.Tracks[i].Validate())
	}
	for i := range s.Drums {
		errs = append(errs, s.Drums[i].Validate())
	}
	return errors.Join(errs...)
}

// Copy makes a deep copy of a Song. Phrases are immutable and are shared.
func (s *Song) Copy() Song {
	ret := Song{BPM: s.BPM}
	for i := range s.Tracks {
		ret.Tracks = append(ret.Tracks, s.Tracks[i].Copy())
	}
	for i := range s.Drums {
		ret.Drums = append(ret.Drums, s.Drums[i].Copy())
	}
	return ret
}

// Length returns the longest loop length of all tracks, i.e. a natural
// duration to render a song for.
func (s *Song) Length() Beat {
	var ret Beat
	for i := range s.Tracks {
		ret = max(ret, s.Tracks[i].Phrase.Length())
	}
	for i := range s.Drums {
		ret = max(ret, s.Drums[i].Phrase.Length())
	}
	return ret
}

// BlockLength is the number of frames rendered per block.
const BlockLength = 512

// BlockBeats returns how many beats one block of BlockLength frames spans at
// the given tempo.
func BlockBeats(bpm float64) Beat {
	return NewBeat(BlockLength * bpm / SampleRate / 60)
}
