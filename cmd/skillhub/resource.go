package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skillhub/skillhub/pkg/loader"
	"github.com/skillhub/skillhub/pkg/presenter"
	"github.com/skillhub/skillhub/pkg/skills"
)

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Inspect skill resource files",
	Long: `List and read the files under a skill's scripts/, references/ and
assets/ subdirectories. Resource contents are read on demand only;
scanning records nothing but their paths.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var resourceLsCmd = &cobra.Command{
	Use:   "ls <skill-id> [category]",
	Short: "List a skill's resource files",
	Long: `List the resource files recorded for a skill, optionally limited to
one category and filtered by a glob pattern.

Examples:
  skillhub resource ls rest-api
  skillhub resource ls rest-api scripts --pattern '**/*.py'`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		pattern, _ := cmd.Flags().GetString("pattern")

		l, session, ok := buildLoader(cmd)
		if !ok {
			os.Exit(1)
		}
		defer session.Close()

		categories := skills.ResourceCategories
		if len(args) == 2 {
			categories = []string{args[1]}
		}

		found := 0
		for _, category := range categories {
			paths, err := l.ListResources(args[0], category, pattern)
			if err != nil {
				presenter.Error(err, "Failed to list resources")
				os.Exit(1)
			}
			for _, p := range paths {
				fmt.Printf("%s/%s\n", category, p)
				found++
			}
		}

		if found == 0 {
			presenter.Info("No resources found")
		}
	},
}

var resourceCatCmd = &cobra.Command{
	Use:   "cat <skill-id> <category> <path>",
	Short: "Print one resource file",
	Long: `Print the content of one resource file. The path must be one of the
relative paths recorded at scan time and must resolve inside the skill
package.

Examples:
  skillhub resource cat rest-api scripts run.sh`,
	Args: cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		l, session, ok := buildLoader(cmd)
		if !ok {
			os.Exit(1)
		}
		defer session.Close()

		data, err := l.ResolveResource(cmd.Context(), session, args[0], args[1], args[2])
		if err != nil {
			presenter.Error(err, "Failed to resolve resource")
			os.Exit(1)
		}

		os.Stdout.Write(data)
	},
}

func init() {
	resourceLsCmd.Flags().StringP("pattern", "p", "", "Glob pattern to filter resource paths")

	resourceCmd.AddCommand(resourceLsCmd)
	resourceCmd.AddCommand(resourceCatCmd)
}

// buildLoader scans the corpus and returns a loader plus an ephemeral
// session. Reports the error itself; callers just exit.
func buildLoader(cmd *cobra.Command) (*loader.Loader, *loader.Session, bool) {
	scanner, err := buildScanner(cmd)
	if err != nil {
		presenter.Error(err, "Failed to configure scanner")
		return nil, nil, false
	}

	result, err := scanner.Scan(cmd.Context())
	if err != nil {
		presenter.Error(err, "Scan failed")
		return nil, nil, false
	}

	return loader.New(result.Registry), loader.NewSession(), true
}
