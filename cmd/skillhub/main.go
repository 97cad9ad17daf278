package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillhub/skillhub/pkg/logger"
	"github.com/skillhub/skillhub/pkg/skills"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLHUB")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillhub")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillhub",
	Short: "Skill registry and progressive disclosure loader",
	Long: `Skillhub discovers skill packages (directories with a SKILL.md file),
indexes their metadata, matches them against free-text task queries, and
materializes skill bodies and resources on demand under a byte budget.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetLogFormat(viper.GetString("log_format"))
		return logger.SetLogLevel(viper.GetString("log_level"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// buildScanner constructs a scanner from the persistent flags and
// config. Explicit --root flags win over configured skill_dirs; with
// neither, the conventional skill locations apply.
func buildScanner(cmd *cobra.Command) (*skills.Scanner, error) {
	var opts []skills.Option

	roots, err := cmd.Flags().GetStringSlice("root")
	if err == nil && len(roots) == 0 {
		roots = viper.GetStringSlice("skill_dirs")
	}
	if len(roots) > 0 {
		opts = append(opts, skills.WithRoots(roots...))
	}

	if allow := viper.GetStringSlice("allowlist"); len(allow) > 0 {
		opts = append(opts, skills.WithAllowlist(allow...))
	}

	return skills.NewScanner(opts...)
}

func main() {
	// Add global flags
	rootCmd.PersistentFlags().StringSlice("root", nil, "Skill root directory to scan (repeatable; overrides config)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")

	// Bind flags to viper
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(resourceCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
