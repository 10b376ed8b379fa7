package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "yalla",
		Usage: "City event catalog with conversational search",
		Commands: []*cli.Command{
			ingestCommand(),
			askCommand(),
			listCommand(),
			statsCommand(),
			clearCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
