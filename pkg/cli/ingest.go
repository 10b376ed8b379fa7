package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/m-hamwi/yalla/pkg/source"
	"github.com/m-hamwi/yalla/pkg/usecase/ingest"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func ingestCommand() *cli.Command {
	var (
		cfg      config
		registry string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "sources",
			Aliases:     []string{"s"},
			Usage:       "Path to the YAML source registry",
			Value:       "sources.yml",
			Sources:     cli.EnvVars("YALLA_SOURCES"),
			Destination: &registry,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ingest",
		Usage: "Reconcile scraper batches into the catalog and index new events",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			collectors, err := source.LoadRegistry(registry)
			if err != nil {
				return err
			}

			cat, _, pipe, err := cfg.newCore(ctx)
			if err != nil {
				return err
			}

			archive, err := cfg.newArchive(ctx)
			if err != nil {
				return err
			}

			var opts []ingest.Option
			if archive != nil {
				opts = append(opts, ingest.WithArchive(archive))
			}
			runner := ingest.New(cat, pipe, opts...)

			report, err := runner.Run(ctx, collectors)
			if err != nil {
				return goerr.Wrap(err, "ingest run failed")
			}

			fmt.Fprintf(c.Root().Writer, "sources: %d\tmerged: %d\tunique: %d\tindexed: %d\t(%s)\n",
				report.Sources, report.Merged, report.Unique, report.Indexed, report.Duration.Round(time.Millisecond))
			return nil
		},
	}
}
