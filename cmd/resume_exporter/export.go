package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/export"
	"github.com/jonathan/resume-exporter/internal/observability"
	"github.com/jonathan/resume-exporter/internal/rendering"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render a resume to PDF, HTML or Markdown",
	Long: "Transforms a resume file for a target and runs the target's renderer. " +
		"With --all, every supported target and format is rendered concurrently into --out-dir.",
	RunE: runExport,
}

var (
	exportResumeFile string
	exportTarget     string
	exportFormat     string
	exportTheme      string
	exportOutputFile string
	exportAll        bool
	exportOutputDir  string
)

func init() {
	exportCmd.Flags().StringVarP(&exportResumeFile, "resume", "r", "", "Path to resume JSON or YAML file (required)")
	exportCmd.Flags().StringVarP(&exportTarget, "target", "t", "", "Target: jsonresume, rendercv, typst or markdown")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "pdf", "Output format: pdf, html or markdown")
	exportCmd.Flags().StringVar(&exportTheme, "theme", "", "Theme or template name (default: the target's default)")
	exportCmd.Flags().StringVarP(&exportOutputFile, "out", "o", "", "Output file (default: resume-<target>.<ext>)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Render every supported target and format (or every format of --target)")
	exportCmd.Flags().StringVar(&exportOutputDir, "out-dir", "exports", "Output directory for --all")

	_ = exportCmd.MarkFlagRequired("resume")
	exportCmd.MarkFlagsMutuallyExclusive("all", "out")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	if exportAll {
		return runExportAll(cmd)
	}
	if exportTarget == "" {
		return fmt.Errorf("--target is required unless --all is set")
	}

	target, err := export.ParseTarget(exportTarget)
	if err != nil {
		return err
	}
	format, err := rendering.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	resume, err := loadResume(cmd, exportResumeFile)
	if err != nil {
		return err
	}

	out, err := newExporter(nil).Export(cmd.Context(), resume, export.Request{Target: target, Format: format, Theme: exportTheme})
	if err != nil {
		return err
	}

	path := exportOutputFile
	if path == "" {
		path = fmt.Sprintf("resume-%s.%s", target, format.Ext())
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, len(out))
	return nil
}

func runExportAll(cmd *cobra.Command) error {
	resume, err := loadResume(cmd, exportResumeFile)
	if err != nil {
		return err
	}

	reqs := export.AllRequests()
	if exportTarget != "" {
		target, err := export.ParseTarget(exportTarget)
		if err != nil {
			return err
		}
		var filtered []export.Request
		for _, req := range reqs {
			if req.Target == target {
				req.Theme = exportTheme
				filtered = append(filtered, req)
			}
		}
		reqs = filtered
	}

	if err := os.MkdirAll(exportOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	results := newExporter(nil).ExportMany(cmd.Context(), resume, reqs)

	summaries := make([]observability.RenderSummary, 0, len(results))
	failed := 0
	for _, res := range results {
		summary := observability.RenderSummary{
			Target: string(res.Request.Target),
			Format: string(res.Request.Format),
			Theme:  res.Request.Theme,
			Err:    res.Err,
		}
		if res.Err == nil {
			summary.Path = filepath.Join(exportOutputDir, fmt.Sprintf("resume-%s.%s", res.Request.Target, res.Request.Format.Ext()))
			summary.Bytes = len(res.Output)
			if err := os.WriteFile(summary.Path, res.Output, 0o644); err != nil {
				summary.Err = fmt.Errorf("failed to write output file: %w", err)
			}
		}
		if summary.Err != nil {
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s/%s: %v\n", summary.Target, summary.Format, summary.Err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", summary.Path)
		}
		summaries = append(summaries, summary)
	}

	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRenders(summaries)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d exports failed", failed, len(results))
	}
	return nil
}
