// Package main provides the resume_exporter CLI: it turns a structured resume
// record into JSON Resume, RenderCV, Typst or Markdown documents and renders them.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/config"
	"github.com/jonathan/resume-exporter/internal/export"
	"github.com/jonathan/resume-exporter/internal/logging"
	"github.com/jonathan/resume-exporter/internal/observability"
	"github.com/jonathan/resume-exporter/internal/types"
)

var rootCmd = &cobra.Command{
	Use:   "resume_exporter",
	Short: "Export structured resumes to JSON Resume, RenderCV, Typst and Markdown",
	Long: "resume_exporter maps one schema-agnostic resume record onto the input formats of " +
		"several resume renderers and runs those renderers to produce PDF, HTML or Markdown.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

var (
	configPath string
	logLevel   string
	verbose    bool

	cfg    *config.Config
	logger *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print a summary of the resume and of each render")
}

// setup loads configuration and builds the logger before any subcommand runs.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	l, err := logging.New(loaded.LogLevel, loaded.LogFormat)
	if err != nil {
		return err
	}

	cfg, logger = loaded, l
	return nil
}

// newExporter builds an exporter from the loaded render settings.
func newExporter(metrics *observability.Metrics) *export.Exporter {
	return export.New(cfg.Render, logger, metrics)
}

// loadResume reads and validates a resume file, printing a summary in verbose mode.
func loadResume(cmd *cobra.Command, path string) (*types.Resume, error) {
	if path == "" {
		return nil, fmt.Errorf("--resume is required")
	}
	resume, err := types.LoadResume(path)
	if err != nil {
		return nil, err
	}
	if err := resume.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume %s: %w", path, err)
	}
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintResume(resume)
	}
	return resume, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
