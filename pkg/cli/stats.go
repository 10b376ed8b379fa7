package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"
)

func statsCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "stats",
		Usage: "Show catalog counts and categories",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			cat, store, _, err := cfg.newCore(ctx)
			if err != nil {
				return err
			}

			stats := cat.Stats()
			w := c.Root().Writer
			fmt.Fprintf(w, "total:      %d\n", stats.Total)
			fmt.Fprintf(w, "unique:     %d\n", stats.Unique)
			fmt.Fprintf(w, "indexed:    %d\n", store.Size())
			fmt.Fprintf(w, "sources:    %s\n", strings.Join(stats.Sources, ", "))
			fmt.Fprintf(w, "categories: %s\n", strings.Join(cat.Categories(), ", "))
			if stats.LastIngest != nil {
				fmt.Fprintf(w, "last ingest: %s\n", stats.LastIngest.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func clearCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete all catalog events and embeddings",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			cat, store, _, err := cfg.newCore(ctx)
			if err != nil {
				return err
			}

			if err := cat.Clear(ctx); err != nil {
				return err
			}
			if err := store.Clear(ctx); err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "catalog cleared\n")
			return nil
		},
	}
}
