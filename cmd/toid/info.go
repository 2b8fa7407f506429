package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toid-audio/toid/wave"
	"github.com/viterin/vek/vek32"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.wav>",
		Short: "Print the format and levels of a .wav file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			w, err := wave.Parse(b)
			if err != nil {
				return fmt.Errorf("%v: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "channels:    %d\n", w.Channels())
			fmt.Fprintf(out, "sample rate: %v Hz\n", w.SampleRate)
			fmt.Fprintf(out, "frames:      %d\n", w.SampleNum)
			fmt.Fprintf(out, "duration:    %.3f s\n", w.Seconds())
			for c := 0; c < w.Channels(); c++ {
				fmt.Fprintf(out, "peak %d:      %.4f\n", c, peak(w.Channel(c)))
			}
			return nil
		},
	}
}

func peak(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return max(vek32.Max(v), -vek32.Min(v))
}
