package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "server",
		Short: "AI workout and diet plan generation service",
		Long: `Generates weekly workout and diet plans from a user profile with Gemini,
recovers the plan from the model's reply and stores it.

COMMANDS:

  server serve                          # Run the HTTP API (MongoDB)
  server serve --memory                 # Run the HTTP API on an in-memory store
  server prompt --profile sam.json      # Print the prompt built for a profile
  server recover --input reply.txt      # Recover and validate a captured reply

CONFIGURATION:

  Settings are read from config.yaml in --config-dir and from environment
  variables (gemini.api_key -> GEMINI_API_KEY).`,
		SilenceUsage: true,
	}

	root.AddCommand(newServeCmd(), newPromptCmd(), newRecoverCmd())
	return root
}
