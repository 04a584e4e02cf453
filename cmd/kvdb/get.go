package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "get [flags] <key>",
		Short:       "Fetch the value associated with <key>",
		GroupID:     "keys",
		Args:        cobra.ExactArgs(1),
		Annotations: storeAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := cmd.Root().Name()
			key := args[0]

			value, found, err := a.store.Get(cmd.Context(), key)
			if err != nil {
				a.logger.Error("get failed", "key", key, "err", err)
				fmt.Fprintf(a.stderr, "%s: Get key '%s'. FAIL\n", prog, key)
				return errReported
			}

			if a.jsonOutput {
				out := map[string]any{"key": key, "found": found}
				if found {
					out["value"] = value
				}
				return a.printJSON(out)
			}
			// An absent key is a successful lookup.
			if !found {
				fmt.Fprintf(a.stdout, "%s: Get key '%s' returned no value. SUCCESS\n", prog, key)
				return nil
			}
			fmt.Fprintf(a.stdout, "%s: Get key '%s' returned value '%s'. SUCCESS\n", prog, key, value)
			return nil
		},
	}
}
