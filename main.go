package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/m-hamwi/yalla/pkg/cli"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		os.Exit(err.Code)
	}
}
