package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillhub/skillhub/pkg/presenter"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the skill roots and report corpus health",
	Long: `Scan the configured skill roots, validate each candidate package's
metadata, and report how many skills were indexed and which candidates
were quarantined for malformed metadata. Duplicate skill ids abort the
scan entirely.`,
	Run: func(cmd *cobra.Command, _ []string) {
		scanner, err := buildScanner(cmd)
		if err != nil {
			presenter.Error(err, "Failed to configure scanner")
			os.Exit(1)
		}

		result, err := scanner.Scan(cmd.Context())
		if err != nil {
			presenter.Error(err, "Scan failed")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Indexed %d skill(s)", result.Registry.Len()))

		if len(result.Failures) == 0 {
			return
		}

		presenter.Separator()
		presenter.Warning(fmt.Sprintf("%d candidate(s) quarantined:", len(result.Failures)))
		for _, failure := range result.Failures {
			presenter.Info(fmt.Sprintf("  %s: %v", failure.Dir, failure.Err))
		}
		os.Exit(1)
	},
}
