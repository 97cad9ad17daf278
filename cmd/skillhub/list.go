package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skillhub/skillhub/pkg/presenter"
	"github.com/skillhub/skillhub/pkg/skills"
)

type ListConfig struct {
	Format string
}

func NewListConfig() *ListConfig {
	return &ListConfig{
		Format: "table",
	}
}

// skillRow is the serializable view of one descriptor for list output.
type skillRow struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	License     string   `json:"license,omitempty" yaml:"license,omitempty"`
	SourcePath  string   `json:"sourcePath" yaml:"sourcePath"`
	Scripts     []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty"`
	Assets      []string `json:"assets,omitempty" yaml:"assets,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all indexed skills",
	Long:  `List all indexed skills with their ids, descriptions, and package paths.`,
	Run: func(cmd *cobra.Command, _ []string) {
		config := getListConfigFromFlags(cmd)

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

		descriptors := result.Registry.List()
		if len(descriptors) == 0 {
			presenter.Info("No skills found")
			return
		}

		if err := renderSkills(descriptors, config.Format); err != nil {
			presenter.Error(err, "Failed to render skill list")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewListConfig()
	listCmd.Flags().StringP("format", "f", defaults.Format, "Output format (table, json, yaml)")
}

func getListConfigFromFlags(cmd *cobra.Command) *ListConfig {
	config := NewListConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		config.Format = format
	}
	return config
}

func renderSkills(descriptors []*skills.Descriptor, format string) error {
	rows := make([]skillRow, 0, len(descriptors))
	for _, d := range descriptors {
		rows = append(rows, skillRow{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			License:     d.License,
			SourcePath:  d.SourcePath,
			Scripts:     d.Resources[skills.CategoryScripts],
			References:  d.Resources[skills.CategoryReferences],
			Assets:      d.Resources[skills.CategoryAssets],
		})
	}

	switch format {
	case "json":
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(rows)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	default:
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "--\t---------\t-----------")
		for _, row := range rows {
			description := row.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", row.ID, row.SourcePath, description)
		}
		tw.Flush()
	}
	return nil
}
