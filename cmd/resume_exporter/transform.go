package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/export"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Write the document source for one target",
	Long: "Maps a resume file onto a target schema and writes the source document " +
		"(JSON Resume JSON, RenderCV YAML, Typst or Markdown) without rendering it.",
	RunE: runTransform,
}

var (
	transformResumeFile string
	transformTarget     string
	transformTheme      string
	transformOutputFile string
)

func init() {
	transformCmd.Flags().StringVarP(&transformResumeFile, "resume", "r", "", "Path to resume JSON or YAML file (required)")
	transformCmd.Flags().StringVarP(&transformTarget, "target", "t", "", "Target: jsonresume, rendercv, typst or markdown (required)")
	transformCmd.Flags().StringVar(&transformTheme, "theme", "", "Theme or template name (default: the target's default)")
	transformCmd.Flags().StringVarP(&transformOutputFile, "out", "o", "", "Output file (default: stdout)")

	_ = transformCmd.MarkFlagRequired("resume")
	_ = transformCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(transformCmd)
}

func runTransform(cmd *cobra.Command, _ []string) error {
	target, err := export.ParseTarget(transformTarget)
	if err != nil {
		return err
	}
	resume, err := loadResume(cmd, transformResumeFile)
	if err != nil {
		return err
	}

	out, err := newExporter(nil).Transform(resume, target, transformTheme)
	if err != nil {
		return err
	}

	if transformOutputFile == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(transformOutputFile, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s source to %s\n", target, transformOutputFile)
	return nil
}
