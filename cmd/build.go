package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/slidekit/spv/internal/builder"
	"github.com/slidekit/spv/internal/config"
	"github.com/slidekit/spv/internal/logger"
	"github.com/slidekit/spv/internal/watcher"
)

func runBuild(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("requires exactly one file argument")
	}

	if !strings.HasSuffix(args[0], ".tex") {
		return fmt.Errorf("file must have .tex extension")
	}

	loader := config.NewLoader()
	cfg, err := loader.LoadForBuild(cmd, args)
	if err != nil {
		return err
	}

	log := logger.New(os.Stderr, cfg.Verbose)
	b := builder.New(cfg, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		return watcher.Watch(ctx, cfg.Source, b.Run, log)
	}

	return b.Run(ctx)
}
