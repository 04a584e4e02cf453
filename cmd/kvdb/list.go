package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List every key with its value and timestamps",
		GroupID:     "data",
		Args:        cobra.NoArgs,
		Annotations: storeAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store.List(cmd.Context())
			if err != nil {
				a.logger.Error("list failed", "err", err)
				fmt.Fprintf(a.stderr, "%s: List keys. FAIL\n", cmd.Root().Name())
				return errReported
			}

			if a.jsonOutput {
				if records == nil {
					return a.printJSON([]any{})
				}
				return a.printJSON(records)
			}
			if len(records) == 0 {
				fmt.Fprintln(a.stdout, "No keys found.")
				return nil
			}
			printRecordTable(a.stdout, records)
			return nil
		},
	}
}
