package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillhub/skillhub/pkg/matcher"
	"github.com/skillhub/skillhub/pkg/presenter"
)

type MatchConfig struct {
	TopK      int
	Threshold float64
}

func NewMatchConfig() *MatchConfig {
	return &MatchConfig{
		TopK:      5,
		Threshold: 1,
	}
}

var matchCmd = &cobra.Command{
	Use:   "match <query>...",
	Short: "Rank skills against a task query",
	Long: `Rank indexed skills against a free-text task query. Scoring uses only
the name and description recorded at scan time; skill bodies are never
read.

Examples:
  skillhub match "REST API routing"
  skillhub match build forms --top-k 3`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getMatchConfigFromFlags(cmd)
		query := strings.Join(args, " ")

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

		m := matcher.New(matcher.WithThreshold(config.Threshold))
		matches := m.Match(result.Registry, query, config.TopK)

		if len(matches) == 0 {
			presenter.Info("No skills matched the query")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SCORE\tID\tDESCRIPTION")
		fmt.Fprintln(tw, "-----\t--\t-----------")
		for _, match := range matches {
			description := match.Descriptor.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%.0f\t%s\t%s\n", match.Score, match.Descriptor.ID, description)
		}
		tw.Flush()
	},
}

func init() {
	defaults := NewMatchConfig()
	matchCmd.Flags().IntP("top-k", "k", defaults.TopK, "Maximum number of results (0 for unlimited)")
	matchCmd.Flags().Float64P("threshold", "t", defaults.Threshold, "Minimum score for a result")
	viper.SetDefault("match_threshold", defaults.Threshold)
}

func getMatchConfigFromFlags(cmd *cobra.Command) *MatchConfig {
	config := NewMatchConfig()
	config.Threshold = viper.GetFloat64("match_threshold")
	if topK, err := cmd.Flags().GetInt("top-k"); err == nil {
		config.TopK = topK
	}
	if cmd.Flags().Changed("threshold") {
		if threshold, err := cmd.Flags().GetFloat64("threshold"); err == nil {
			config.Threshold = threshold
		}
	}
	return config
}
