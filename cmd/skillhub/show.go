package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillhub/skillhub/pkg/loader"
	"github.com/skillhub/skillhub/pkg/presenter"
)

type ShowConfig struct {
	Budget int64
	Stats  bool
}

func NewShowConfig() *ShowConfig {
	return &ShowConfig{
		Budget: loader.DefaultBudget,
		Stats:  false,
	}
}

var showCmd = &cobra.Command{
	Use:   "show <skill-id>...",
	Short: "Activate skills and print their bodies",
	Long: `Activate one or more skills into an ephemeral session and print their
full bodies. Activation order matters: when the combined bodies exceed
the session budget, the oldest activated skill is evicted first.

Examples:
  skillhub show rest-api
  skillhub show rest-api styled-forms --budget 65536 --stats`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := getShowConfigFromFlags(cmd)

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

		l := loader.New(result.Registry)
		session := loader.NewSession(loader.WithBudget(config.Budget))
		defer session.Close()

		for _, id := range args {
			body, err := l.Activate(cmd.Context(), session, id)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to activate skill %q", id))
				os.Exit(1)
			}

			presenter.Section(id)
			fmt.Println(body)
		}

		if config.Stats {
			presenter.Separator()
			presenter.Stats(&presenter.SessionStats{
				LoadedSkills: len(session.Loaded()),
				BytesUsed:    session.BytesUsed(),
				BudgetLimit:  session.BudgetLimit(),
			})
		}
	},
}

func init() {
	defaults := NewShowConfig()
	showCmd.Flags().Int64P("budget", "b", defaults.Budget, "Session content budget in bytes")
	showCmd.Flags().Bool("stats", defaults.Stats, "Print session budget usage after activation")
	viper.SetDefault("budget", defaults.Budget)
}

func getShowConfigFromFlags(cmd *cobra.Command) *ShowConfig {
	config := NewShowConfig()
	config.Budget = viper.GetInt64("budget")
	if cmd.Flags().Changed("budget") {
		if budget, err := cmd.Flags().GetInt64("budget"); err == nil {
			config.Budget = budget
		}
	}
	if stats, err := cmd.Flags().GetBool("stats"); err == nil {
		config.Stats = stats
	}
	return config
}
