package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/kvdb/internal/events"
	"github.com/alfredjeanlab/kvdb/internal/model"
)

func newSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "set [flags] <key> <value>",
		Short:       "Associate <key> with <value>, recording when it was first and last set",
		GroupID:     "keys",
		Args:        cobra.ExactArgs(2),
		Annotations: storeAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := cmd.Root().Name()
			key, value := args[0], args[1]

			if err := a.store.Set(ctx, key, value); err != nil {
				a.logger.Error("set failed", "key", key, "err", err)
				fmt.Fprintf(a.stderr, "%s: Set key '%s' value to '%s'. FAIL\n", prog, key, value)
				return errReported
			}

			rec := &model.Record{Key: key, Value: value}
			if a.jsonOutput || a.eventsEnabled() {
				if ts, err := a.store.Timestamps(ctx, key); err == nil {
					rec.InsertTS, rec.UpdateTS = ts.InsertTS, ts.UpdateTS
				} else {
					a.logger.Warn("reading timestamps after set", "key", key, "err", err)
				}
			}
			if id, ok := a.eventID(); ok {
				a.publish(ctx, events.TopicKeySet, events.KeySet{ID: id, Record: rec})
			}

			if a.jsonOutput {
				return a.printJSON(rec)
			}
			fmt.Fprintf(a.stdout, "%s: Set key '%s' value to '%s'. SUCCESS\n", prog, key, value)
			return nil
		},
	}
}
