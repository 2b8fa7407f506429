package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toid-audio/toid"
	"github.com/toid-audio/toid/driver"
	"github.com/toid-audio/toid/resource"
)

// songFlags are shared by render and play.
type songFlags struct {
	resources string
	seconds   float64
	bpm       float64
}

func (f *songFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.resources, "resources", "r", "", "Resource manifest (.yml) listing sample banks, drum kits and waves")
	cmd.Flags().Float64VarP(&f.seconds, "seconds", "s", 0, "Duration in seconds (default: one loop of the longest track)")
	cmd.Flags().Float64Var(&f.bpm, "bpm", 0, "Override the tempo of the song")
}

// load reads the song and its resources and returns a driver at the start of
// the song, and the duration to play.
func (f *songFlags) load(path string) (*driver.Driver, float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("could not read song: %w", err)
	}
	song, err := toid.LoadSong(b)
	if err != nil {
		return nil, 0, fmt.Errorf("%v: %w", path, err)
	}
	if f.bpm != 0 {
		song.BPM = f.bpm
	}
	if err := song.Validate(); err != nil {
		return nil, 0, fmt.Errorf("invalid song %v: %w", path, err)
	}
	var provider toid.ResourceProvider
	if f.resources != "" {
		m, err := resource.LoadManifest(f.resources)
		if err != nil {
			return nil, 0, err
		}
		provider = m
	}
	seconds := f.seconds
	if seconds <= 0 {
		seconds = song.Length().Seconds(song.BPM)
	}
	if seconds <= 0 {
		return nil, 0, fmt.Errorf("song %v has no looping tracks, give the duration with --seconds", path)
	}
	return driver.New(song, provider), seconds, nil
}

func newRenderCmd() *cobra.Command {
	var (
		flags  songFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "render <song>",
		Short: "Render a song to a 16-bit .wav file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, seconds, err := flags.load(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".wav"
			}
			buffer := d.RenderSeconds(seconds)
			if err := buffer.Wave().Save(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %s -> %s (%.2f s)\n", args[0], output, float64(buffer.Len())/toid.SampleRate)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output .wav file (default: the song path with .wav extension)")
	return cmd
}
