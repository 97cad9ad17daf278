package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillhub/skillhub/pkg/presenter"
	"github.com/skillhub/skillhub/pkg/skills"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the skill roots and report corpus changes",
	Long: `Watch the configured skill roots and rescan when packages change.
Each change produces a fresh registry snapshot; the running index is
never mutated in place.`,
	Run: func(cmd *cobra.Command, _ []string) {
		scanner, err := buildScanner(cmd)
		if err != nil {
			presenter.Error(err, "Failed to configure scanner")
			os.Exit(1)
		}

		result, err := scanner.Scan(cmd.Context())
		if err != nil {
			presenter.Error(err, "Initial scan failed")
			os.Exit(1)
		}
		presenter.Info(fmt.Sprintf("Watching %d skill(s); press Ctrl-C to stop", result.Registry.Len()))

		watcher, err := skills.NewWatcher(scanner)
		if err != nil {
			presenter.Error(err, "Failed to start watcher")
			os.Exit(1)
		}

		go func() {
			for update := range watcher.Updates() {
				presenter.Success(fmt.Sprintf("Corpus rebuilt: %d skill(s), %d quarantined",
					update.Registry.Len(), len(update.Failures)))
			}
		}()

		if err := watcher.Run(cmd.Context()); err != nil && cmd.Context().Err() == nil {
			presenter.Error(err, "Watcher stopped")
			os.Exit(1)
		}
	},
}
