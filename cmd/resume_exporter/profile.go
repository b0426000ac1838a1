package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-exporter/internal/db"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage resume profiles stored in PostgreSQL",
	Long:  "Save, list, show and delete resume profiles. Requires database_url in the config or DATABASE_URL.",
}

var profileSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a resume file as a profile (upserts by contact name)",
	RunE:  runProfileSave,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles, most recently updated first",
	RunE:  runProfileList,
}

var profileShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved profile's resume as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileShow,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileDelete,
}

var (
	profileResumeFile string
	profileDatabaseURL string
)

func init() {
	profileCmd.PersistentFlags().StringVar(&profileDatabaseURL, "db-url", "", "PostgreSQL connection URL (overrides config)")
	profileSaveCmd.Flags().StringVarP(&profileResumeFile, "resume", "r", "", "Path to resume JSON or YAML file (required)")
	_ = profileSaveCmd.MarkFlagRequired("resume")

	profileCmd.AddCommand(profileSaveCmd, profileListCmd, profileShowCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

// openDatabase connects using --db-url or the configured database URL.
func openDatabase(cmd *cobra.Command) (*db.DB, error) {
	url := profileDatabaseURL
	if url == "" {
		url = cfg.DatabaseURL
	}
	if url == "" {
		return nil, fmt.Errorf("database URL is required (set database_url, DATABASE_URL or --db-url)")
	}
	return connectStore(cmd.Context(), url)
}

func parseProfileID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid profile id %q: %w", arg, err)
	}
	return id, nil
}

func runProfileSave(cmd *cobra.Command, _ []string) error {
	resume, err := loadResume(cmd, profileResumeFile)
	if err != nil {
		return err
	}
	database, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := database.SaveProfile(cmd.Context(), resume)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q (%s)\n", resume.ProfileName(), id)
	return nil
}

func runProfileList(cmd *cobra.Command, _ []string) error {
	database, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	profiles, err := database.ListProfiles(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No saved profiles")
		return nil
	}
	for _, p := range profiles {
		line := fmt.Sprintf("%s  %s", p.ID, p.Name)
		if p.Title != "" {
			line += " · " + p.Title
		}
		fmt.Fprintf(out, "%s  (updated %s)\n", line, p.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	id, err := parseProfileID(args[0])
	if err != nil {
		return err
	}
	database, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	profile, err := database.GetProfile(cmd.Context(), id)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile %s not found", id)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(profile.Resume)
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	id, err := parseProfileID(args[0])
	if err != nil {
		return err
	}
	database, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer database.Close()

	deleted, err := database.DeleteProfile(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("profile %s not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", id)
	return nil
}
