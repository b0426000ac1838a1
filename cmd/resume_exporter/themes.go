package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/export"
)

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List targets with their themes and output formats",
	RunE:  runThemes,
}

var themesJSON bool

func init() {
	themesCmd.Flags().BoolVar(&themesJSON, "json", false, "Print the catalogue as JSON")

	rootCmd.AddCommand(themesCmd)
}

func runThemes(cmd *cobra.Command, _ []string) error {
	catalogue := export.Catalogue()
	out := cmd.OutOrStdout()

	if themesJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(catalogue)
	}

	for _, info := range catalogue {
		formats := make([]string, len(info.Formats))
		for i, f := range info.Formats {
			formats[i] = string(f)
		}
		fmt.Fprintf(out, "%s\n", info.Target)
		fmt.Fprintf(out, "  themes:  %s (default: %s)\n", strings.Join(info.Themes, ", "), info.DefaultTheme())
		fmt.Fprintf(out, "  formats: %s\n", strings.Join(formats, ", "))
	}
	return nil
}
