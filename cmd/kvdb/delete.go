package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/kvdb/internal/events"
	"github.com/alfredjeanlab/kvdb/internal/store"
)

func newDelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "del [flags] <key>",
		Short:       "Remove <key> from the database",
		GroupID:     "keys",
		Args:        cobra.ExactArgs(1),
		Annotations: storeAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := cmd.Root().Name()
			key := args[0]

			if err := a.store.Delete(ctx, key); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					a.logger.Info("delete of absent key", "key", key)
				} else {
					a.logger.Error("delete failed", "key", key, "err", err)
				}
				fmt.Fprintf(a.stderr, "%s: Del key '%s'. FAIL\n", prog, key)
				return errReported
			}

			if id, ok := a.eventID(); ok {
				a.publish(ctx, events.TopicKeyDeleted, events.KeyDeleted{ID: id, Key: key})
			}

			if a.jsonOutput {
				return a.printJSON(map[string]any{"key": key, "deleted": true})
			}
			fmt.Fprintf(a.stdout, "%s: Del key '%s'. SUCCESS\n", prog, key)
			return nil
		},
	}
}
