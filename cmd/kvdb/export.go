package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/kvdb/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		outPath  string
		toS3     bool
		s3Bucket string
		s3Key    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as JSONL to a file, stdout, or S3",
		Long: `Write every record as JSONL: a header line followed by one line per key,
in key order. By default the export goes to stdout. With --s3 it is uploaded
to the bucket configured by KVDB_EXPORT_S3_BUCKET (or --s3-bucket).`,
		GroupID:     "data",
		Args:        cobra.NoArgs,
		Annotations: storeAnnotations,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := cmd.Root().Name()

			var (
				dest     export.Destination
				location string
			)
			if toS3 || s3Bucket != "" {
				cfg := a.cfg.Export
				if s3Bucket != "" {
					cfg.S3Bucket = s3Bucket
				}
				if s3Key != "" {
					cfg.S3Key = s3Key
				}
				s3dest, err := export.NewS3Destination(ctx, cfg.S3Bucket, cfg.S3Key, cfg.S3Region, cfg.S3Endpoint)
				if err != nil {
					a.logger.Error("s3 destination", "err", err)
					fmt.Fprintf(a.stderr, "%s: Export. FAIL (%v)\n", prog, err)
					return errReported
				}
				dest, location = s3dest, s3dest.Location()
			} else {
				dest, location = &export.FileDestination{Path: outPath, Stdout: a.stdout}, outPath
			}

			n, err := export.Run(ctx, a.store, dest)
			if err != nil {
				a.logger.Error("export failed", "destination", location, "err", err)
				fmt.Fprintf(a.stderr, "%s: Export to %s. FAIL\n", prog, location)
				return errReported
			}

			a.logger.Info("export completed", "destination", location, "records", n)
			// Keep stdout clean when it carries the export itself.
			if location != "-" && location != "" {
				fmt.Fprintf(a.stdout, "%s: Exported %d keys to %s. SUCCESS\n", prog, n, location)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "-", `output file ("-" for stdout)`)
	cmd.Flags().BoolVar(&toS3, "s3", false, "upload to the configured S3 bucket instead of writing a file")
	cmd.Flags().StringVar(&s3Bucket, "s3-bucket", "", "S3 bucket (implies --s3)")
	cmd.Flags().StringVar(&s3Key, "s3-key", "", "S3 object key (default from KVDB_EXPORT_S3_KEY)")
	return cmd
}
