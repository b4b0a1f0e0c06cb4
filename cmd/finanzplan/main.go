// Command finanzplan is a household budget book for the terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"finanzplan/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Konfiguration ungültig: %v\n", err)
		return 1
	}
	logger := cli.SetupLogger(os.Stderr, cfg.LogLevel)

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	root, e := newRootCmd(os.Stdout, func(ctx context.Context) (*cli.App, error) {
		return cli.Open(ctx, cfg, logger)
	})
	err = root.ExecuteContext(ctx)
	if cerr := e.close(); cerr != nil {
		logger.Warn("Failed to close store", "error", cerr)
	}
	if err != nil {
		logger.Debug("Command failed", "error", err)
		fmt.Fprintf(os.Stderr, "Fehler: %s\n", describe(err))
		return 1
	}
	return 0
}
