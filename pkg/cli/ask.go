package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-hamwi/yalla/pkg/catalog"
	"github.com/m-hamwi/yalla/pkg/usecase/rag"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg   config
		query string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "One-shot question; omit for an interactive session",
			Destination: &query,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "ask",
		Usage: "Ask a natural-language question about upcoming events",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			cat, _, pipe, err := cfg.newCore(ctx)
			if err != nil {
				return err
			}

			if query != "" {
				printAnswer(c.Root().Writer, answerWithSpinner(ctx, pipe, cat, query))
				return nil
			}

			rl, err := readline.New("? ")
			if err != nil {
				return goerr.Wrap(err, "failed to start interactive session")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Ask about events. Type 'exit' to quit.\n")
			for {
				line, err := rl.Readline()
				if err != nil {
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						break
					}
					return goerr.Wrap(err, "failed to read input")
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				printAnswer(c.Root().Writer, answerWithSpinner(ctx, pipe, cat, line))
			}
			return nil
		},
	}
}

func answerWithSpinner(ctx context.Context, pipe *rag.Pipeline, cat *catalog.Catalog, query string) *rag.Answer {
	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " looking it up..."
	sp.Start()
	defer sp.Stop()

	return pipe.Answer(ctx, query, cat.All())
}

func printAnswer(w io.Writer, ans *rag.Answer) {
	fmt.Fprintf(w, "%s\n", ans.Text)
	if len(ans.Events) == 0 {
		return
	}

	fmt.Fprintf(w, "\nMatched events:\n")
	for _, ev := range ans.Events {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.StartDate.Format("2006-01-02"), ev.Title, ev.Venue)
	}
}
