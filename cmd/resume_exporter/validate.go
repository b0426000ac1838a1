package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/schemas"
	"github.com/jonathan/resume-exporter/internal/transform"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a resume file against the bundled schemas",
	Long: "Validates a resume file structurally, against the bundled resume JSON Schema, " +
		"and checks that its JSON Resume projection satisfies the JSON Resume schema.",
	RunE: runValidate,
}

var (
	validateResumeFile string
	validateSchemaFile string
)

func init() {
	validateCmd.Flags().StringVarP(&validateResumeFile, "resume", "r", "", "Path to resume JSON or YAML file (required)")
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema", "", "Additional JSON Schema file the resume must satisfy")
	_ = validateCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	resume, err := loadResume(cmd, validateResumeFile)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if err := schemas.ValidateResume(resume); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ resume matches resume.schema.json")

	if validateSchemaFile != "" {
		if err := schemas.ValidateFile(validateSchemaFile, resume); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ resume matches %s\n", validateSchemaFile)
	}

	doc := transform.ToJSONResume(resume, transform.Options{Logger: logger})
	if err := schemas.ValidateJSONResume(doc); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ JSON Resume projection matches json_resume.schema.json")
	return nil
}
