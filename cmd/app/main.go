// Command barstock is the interactive bar stock console. With no arguments it
// starts the slash-command REPL over a fresh seeded session; otherwise the
// arguments name a one-shot subcommand (report, dashboard, audit, import...).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	"barstock/internal/adapters/cli"
	"barstock/internal/adapters/repl"
	"barstock/internal/app"
	"barstock/internal/config"
	"barstock/internal/logger"

	"github.com/google/subcommands"
)

var style = flag.String("style", "", "Glamour style for rendered reports (dark, light, notty). Empty picks one for the terminal.")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("barstock", cfg.Environment, cfg.LogLevel)

	svc, cleanup, err := app.Bootstrap(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer cleanup()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	flag.Parse()
	cli.Register(commander, &cli.Env{
		Svc:      svc,
		Out:      os.Stdout,
		In:       os.Stdin,
		Currency: cfg.Currency,
		Style:    *style,
	})

	if flag.NArg() == 0 {
		repl.New(svc, bufio.NewReader(os.Stdin), os.Stdout, cfg.Currency, *style).Run(ctx)
		return
	}
	status := commander.Execute(ctx)
	cleanup()
	os.Exit(int(status))
}
