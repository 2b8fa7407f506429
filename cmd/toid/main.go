// Command toid renders and plays songs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/toid-audio/toid/version"

	_ "github.com/toid-audio/toid/effect" // built-in effects
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "toid",
		Short: "Render and play looping songs",
		Long: `toid renders songs made of looping phrases, played with oscillators,
sampled instruments and drum kits.

Examples:
  toid render song.yml -o song.wav --resources samples/resources.yml
  toid play song.yml --seconds 30
  toid info song.wav`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCmd(), newPlayCmd(), newInfoCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
