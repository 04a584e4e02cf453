package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/kvdb/internal/store"
)

func newTSCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "ts [flags] <key>",
		Short:       "Fetch the timestamps when <key> was first and last set",
		GroupID:     "keys",
		Args:        cobra.ExactArgs(1),
		Annotations: storeAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			prog := cmd.Root().Name()
			key := args[0]

			ts, err := a.store.Timestamps(cmd.Context(), key)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					fmt.Fprintf(a.stderr, "%s: Get key '%s' not found, no timestamps. FAIL\n", prog, key)
				} else {
					a.logger.Error("timestamps failed", "key", key, "err", err)
					fmt.Fprintf(a.stderr, "%s: Get key '%s' timestamps. FAIL\n", prog, key)
				}
				return errReported
			}

			if a.jsonOutput {
				return a.printJSON(map[string]string{
					"key":       key,
					"insert_ts": ts.InsertTS,
					"update_ts": ts.UpdateTS,
				})
			}
			fmt.Fprintf(a.stdout, "%s: Get key '%s' timestamps: It was first set at %s and last at %s. SUCCESS\n",
				prog, key, ts.InsertTS, ts.UpdateTS)
			return nil
		},
	}
}
