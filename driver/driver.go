// Package driver advances a song block by block: it owns the playback
// position and the tempo, runs one player per track and mixes their output.
package driver

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/toid-audio/toid"
	"github.com/toid-audio/toid/player"
	"golang.org/x/sync/errgroup"
)

type (
	// Driver plays a Song. Its methods may be called from several
	// goroutines; blocks are rendered one at a time.
	Driver struct {
		mu         sync.Mutex
		song       toid.Song
		provider   toid.ResourceProvider  // shared by all players, only read
		pitch      []*player.PitchPlayer  // one player per song.Tracks
		drums      []*player.SamplePlayer // one player per song.Drums
		cumSamples uint64                 // frames rendered since the start
		cumBeats   toid.Beat              // beats elapsed since the start
		bpm        float64
		logger     *log.Logger

		// Parallel is the maximum number of tracks rendered at the same time;
		// values < 1 mean runtime.GOMAXPROCS(0).
		Parallel int
	}
)

// New returns a driver at the start of song. provider may be nil if the song
// uses no resources.
func New(song toid.Song, provider toid.ResourceProvider) *Driver {
	d := &Driver{provider: provider, logger: log.Default()}
	d.setSong(song)
	d.bpm = song.BPM
	return d
}

// Next renders the next block of toid.BlockLength frames, mixing every track.
func (d *Driver) Next() toid.AudioBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.next()
}

// Render renders the next n blocks as one buffer.
func (d *Driver) Render(n int) toid.AudioBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	ret := toid.AudioBuffer{
		Left:  make([]float32, 0, max(n, 0)*toid.BlockLength),
		Right: make([]float32, 0, max(n, 0)*toid.BlockLength),
	}
	for i := 0; i < n; i++ {
		ret = ret.Append(d.next())
	}
	return ret
}

// RenderSeconds renders at least the given duration, rounded up to whole
// blocks.
func (d *Driver) RenderSeconds(seconds float64) toid.AudioBuffer {
	frames := int(seconds * toid.SampleRate)
	return d.Render((frames + toid.BlockLength - 1) / toid.BlockLength)
}

// Play writes blocks to sink until ctx is done or writing fails. It returns
// ctx.Err() when cancelled.
func (d *Driver) Play(ctx context.Context, sink toid.AudioSink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := sink.WriteAudio(d.Next()); err != nil {
			return fmt.Errorf("could not write audio: %w", err)
		}
	}
}

// SetSong replaces the song without moving the position. A track keeps its
// player, and thus its sounding notes and effect state, if the track at the
// same index has the same name in the new song. The tempo is not changed; use
// SetBPM for that.
func (d *Driver) SetSong(song toid.Song) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setSong(song)
}

// SetBPM changes the tempo from the next block on. Non-positive tempos stop
// new notes from being scheduled.
func (d *Driver) SetBPM(bpm float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bpm = bpm
}

func (d *Driver) BPM() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bpm
}

// Stop rewinds to the start and silences every track.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cumSamples = 0
	d.cumBeats = 0
	for _, p := range d.pitch {
		p.Clean()
	}
	for _, p := range d.drums {
		p.Clean()
	}
}

// Position returns the number of frames rendered and beats elapsed since the
// start.
func (d *Driver) Position() (samples uint64, beats toid.Beat) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cumSamples, d.cumBeats
}

func (d *Driver) next() toid.AudioBuffer {
	outs := make([]toid.AudioBuffer, len(d.pitch)+len(d.drums))
	var g errgroup.Group
	g.SetLimit(d.parallel())
	for i, p := range d.pitch {
		track := &d.song.Tracks[i]
		g.Go(func() error {
			outs[i] = p.Play(track, d.provider, d.cumSamples, d.cumBeats, d.bpm)
			return nil
		})
	}
	for i, p := range d.drums {
		track := &d.song.Drums[i]
		g.Go(func() error {
			outs[len(d.pitch)+i] = p.Play(track, d.provider, d.cumSamples, d.cumBeats, d.bpm)
			return nil
		})
	}
	_ = g.Wait() // players never fail, errors are logged by them
	mix := toid.NewAudioBuffer(toid.BlockLength)
	for _, out := range outs {
		mix.Mix(out)
	}
	d.cumSamples += toid.BlockLength
	d.cumBeats = d.cumBeats.Add(toid.BlockBeats(d.bpm))
	return mix
}

func (d *Driver) setSong(song toid.Song) {
	oldTracks, oldDrums := d.song.Tracks, d.song.Drums
	d.song = song.Copy()
	d.pitch = reusePlayers(d.pitch, oldTracks, d.song.Tracks, func() *player.PitchPlayer {
		p := player.NewPitchPlayer()
		p.Logger = d.logger
		return p
	})
	d.drums = reusePlayers(d.drums, oldDrums, d.song.Drums, func() *player.SamplePlayer {
		p := player.NewSamplePlayer()
		p.Logger = d.logger
		return p
	})
}

func reusePlayers[P any, N toid.Note[N]](players []P, oldTracks, newTracks []toid.Track[N], newPlayer func() P) []P {
	ret := make([]P, len(newTracks))
	for i := range newTracks {
		if i < len(players) && i < len(oldTracks) && oldTracks[i].Name == newTracks[i].Name {
			ret[i] = players[i]
		} else {
			ret[i] = newPlayer()
		}
	}
	return ret
}

func (d *Driver) parallel() int {
	if d.Parallel < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return d.Parallel
}

// SetLogger sets the logger of the driver and all its players.
func (d *Driver) SetLogger(logger *log.Logger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if logger == nil {
		logger = log.Default()
	}
	d.logger = logger
	for _, p := range d.pitch {
		p.Logger = logger
	}
	for _, p := range d.drums {
		p.Logger = logger
	}
}
