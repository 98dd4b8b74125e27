package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"grindai/fitness-planner/internal/planner"

	"github.com/spf13/cobra"
)

func newRecoverCmd() *cobra.Command {
	var (
		inputPath string
		legacy    bool
	)
	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Recover and validate a plan from captured model output",
		Long: `Run plan recovery and validation on a saved model reply (for example an
archived transcript) and print the plan as JSON.

Use --input - to read from stdin.

EXAMPLES:

  server recover --input reply.txt
  server recover --input reply.txt --legacy-brace-scan`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if inputPath == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(inputPath)
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			mode := planner.ScanStringAware
			if legacy {
				mode = planner.ScanLegacy
			}
			plan, err := planner.Recoverer{Mode: mode}.Recover(string(data))
			if err != nil {
				return err
			}
			if plan, err = planner.Validate(plan); err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(plan)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file holding the raw model reply, or - for stdin")
	cmd.Flags().BoolVar(&legacy, "legacy-brace-scan", false, "count braces inside strings when extracting the object")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
