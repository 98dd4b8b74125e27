package main

import (
	"encoding/json"
	"fmt"
	"os"

	"grindai/fitness-planner/internal/domain"
	"grindai/fitness-planner/internal/planner"

	"github.com/spf13/cobra"
)

func newPromptCmd() *cobra.Command {
	var profilePath string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the model prompt for a profile",
		Long: `Normalize a profile JSON file and print the exact prompt sent to the model.

EXAMPLES:

  server prompt --profile sam.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(profilePath)
			if err != nil {
				return fmt.Errorf("failed to read profile: %w", err)
			}
			var raw map[string]any
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("profile is not a JSON object: %w", err)
			}
			profile, err := domain.NormalizeProfile(raw)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), planner.BuildPrompt(profile))
			return nil
		},
	}
	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "path to a profile JSON file")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}
