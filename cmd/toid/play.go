package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/toid-audio/toid/oto"
)

func newPlayCmd() *cobra.Command {
	var (
		flags songFlags
		loop  bool
	)
	cmd := &cobra.Command{
		Use:   "play <song>",
		Short: "Play a song on the default audio device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, seconds, err := flags.load(args[0])
			if err != nil {
				return err
			}
			audioContext, err := oto.NewContext()
			if err != nil {
				return fmt.Errorf("could not acquire oto AudioContext: %w", err)
			}
			defer audioContext.Close()
			output := audioContext.Output()
			defer output.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if !loop {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(seconds*float64(time.Second)))
				defer cancel()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Playing %s, press Ctrl-C to stop\n", args[0])
			err = d.Play(ctx, output)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVarP(&loop, "loop", "l", false, "Play until interrupted")
	return cmd
}
