// Package oto plays audio on the default output device with
// github.com/ebitengine/oto/v3.
package oto

import (
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/toid-audio/toid"
)

type (
	// Context is a toid.AudioContext on the default output device. Only one
	// Context can exist per process.
	Context struct {
		ctx *oto.Context
	}

	// Output streams blocks to an oto player. WriteAudio blocks until the
	// player has consumed the previous data, so a driver writing in a loop
	// runs at the speed of the device.
	Output struct {
		player *oto.Player
		w      *io.PipeWriter
		tmp    []byte
	}
)

var _ toid.AudioContext = (*Context)(nil)

const bufferDuration = 50 * time.Millisecond

// NewContext opens the default output device at toid.SampleRate, stereo, and
// waits until it is ready.
func NewContext() (*Context, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   toid.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferDuration,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx}, nil
}

// Output starts a new player; every output is mixed by the device.
func (c *Context) Output() toid.AudioSink {
	r, w := io.Pipe()
	player := c.ctx.NewPlayer(r)
	player.Play()
	return &Output{player: player, w: w}
}

// Close suspends the device. oto contexts cannot be disposed of.
func (c *Context) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *Output) WriteAudio(buffer toid.AudioBuffer) error {
	o.tmp = AppendFloat32LE(o.tmp[:0], buffer)
	if _, err := o.w.Write(o.tmp); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

// Close pauses the player and ends its stream.
func (o *Output) Close() error {
	o.player.Pause()
	if err := o.w.Close(); err != nil {
		return fmt.Errorf("cannot close oto output: %w", err)
	}
	return nil
}
