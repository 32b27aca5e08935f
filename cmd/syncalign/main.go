// Command syncalign is a thin demonstrator for the analysis core: it
// decodes a reference and an other WAV file, runs one correlation method
// end to end (or, with --multi, every enabled method), and prints the
// resulting delay.
// It intentionally carries no job queue, no persistence, and no web
// surface — those belong to a caller embedding this module, not to the
// module itself.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syncalign/core/internal/syncconf"
	"github.com/syncalign/core/internal/syncdsp/fft"
	"github.com/syncalign/core/internal/synclog"
)

func main() {
	if err := RootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// RootCommand builds the syncalign CLI: persistent flags, one-time init,
// then subcommands.
func RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "syncalign",
		Short: "Audio-sync delay analysis demonstrator",
		Long:  "syncalign analyzes the time offset between a reference and an other audio source using one of the core's correlation methods.",
	}
	root.SilenceUsage = true
	root.PersistentFlags().StringVar(&configPath, "config", "", "directory to search for syncalign.yaml")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		synclog.Init()
		fft.LogCapabilities()
		return nil
	}

	root.AddCommand(analyzeCommand(&configPath))
	return root
}

func loadSettings(configPath string) (*syncconf.Settings, error) {
	if configPath == "" {
		return syncconf.Load()
	}
	return syncconf.Load(configPath)
}
