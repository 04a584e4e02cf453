package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/kvdb/internal/model"
)

func (a *app) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(a.stderr, "Error marshaling JSON: %v\n", err)
		return errReported
	}
	fmt.Fprintln(a.stdout, string(data))
	return nil
}

func printRecordTable(w io.Writer, records []*model.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tVALUE\tINSERTED\tUPDATED")
	for _, r := range records {
		value := r.Value
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Key, value, r.InsertTS, r.UpdateTS)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d keys\n", len(records))
}
