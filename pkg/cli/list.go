package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/m-hamwi/yalla/pkg/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg      config
		from     string
		to       string
		category string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "from",
			Usage:       "Start of date range (YYYY-MM-DD)",
			Destination: &from,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "End of date range, exclusive (YYYY-MM-DD)",
			Destination: &to,
		},
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Filter by category",
			Destination: &category,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List catalog events, deduplicated and date ascending",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			cat, _, _, err := cfg.newCore(ctx)
			if err != nil {
				return err
			}

			var events []model.Event
			switch {
			case category != "":
				events = cat.QueryByCategory(category)
			case from != "" || to != "":
				start, end, err := parseRange(from, to)
				if err != nil {
					return err
				}
				events = cat.QueryRange(start, end)
			default:
				events = cat.All()
			}

			for _, ev := range events {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\t%s\n",
					ev.StartDate.Format("2006-01-02"), ev.Title, ev.Category, ev.Venue, ev.Source)
			}
			return nil
		},
	}
}

func parseRange(from, to string) (time.Time, time.Time, error) {
	start := time.Time{}
	end := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return start, end, goerr.Wrap(err, "invalid --from date", goerr.V("from", from))
		}
		start = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return start, end, goerr.Wrap(err, "invalid --to date", goerr.V("to", to))
		}
		end = t
	}
	return start, end, nil
}
