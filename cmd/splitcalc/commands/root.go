// Package commands implements the splitcalc command line: offline split
// calculations and edits of the stored ledger.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"splitter/internal/backend"
	"splitter/internal/cli"
	"splitter/internal/log"
	"splitter/internal/services"
)

// Env is what the commands read from and write to.
type Env struct {
	In  io.Reader
	Out io.Writer
	// Open returns a loaded ledger service and a function releasing it.
	Open func(ctx context.Context) (*services.FinanceService, func() error, error)
}

func Execute() error {
	return NewRootCommand(DefaultEnv()).Execute()
}

// DefaultEnv uses stdio and the store configured by the environment.
func DefaultEnv() *Env {
	return &Env{In: os.Stdin, Out: os.Stdout, Open: openConfigured}
}

func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:          "splitcalc",
		Short:        "Split shared expenses in proportion to contributions",
		SilenceUsage: true,
	}
	root.SetIn(env.In)
	root.SetOut(env.Out)

	root.AddCommand(calcCmd(env), showCmd(env), addCmd(env), editCmd(env), deleteCmd(env))
	return root
}

// openConfigured opens the DATA_BACKEND store. Logs go to stderr so stdout
// stays clean for tables and JSON.
func openConfigured(ctx context.Context) (*services.FinanceService, func() error, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := cli.SetupLogger(cfg, log.ComponentCLI, os.Stderr)

	res, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{res.Cleanup}

	opts := services.FinanceServiceOptions{Logger: logger}
	notifier, err := backend.NewNotifier(cfg, logger)
	if err != nil {
		logger.Warn("Save notifications disabled", log.FieldError, err.Error())
	} else if notifier != nil {
		opts.Notifier = notifier
		closers = append(closers, notifier.Close)
	}

	closeAll := func() error {
		var first error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil && first == nil {
				first = err
			}
		}
		return first
	}

	svc := services.NewFinanceService(res.Store, opts)
	if err := svc.Load(ctx); err != nil {
		_ = closeAll()
		return nil, nil, fmt.Errorf("refusing to continue: %w", err)
	}
	return svc, closeAll, nil
}

// withService opens the ledger, runs fn and releases it.
func withService(cmd *cobra.Command, env *Env, fn func(svc *services.FinanceService) error) (err error) {
	svc, closeFn, err := env.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(svc)
}
