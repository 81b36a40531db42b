package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const usageText = `sometimes renders conditional XHTML markup.

Templates are YAML markup definitions stored under <data_dir>/templates with
the .tmpl.yaml suffix. Store data lives in the SQLite database named by the
configuration file and is loaded before every render.

Examples:
  sometimes demo
  sometimes render page -if bold
  sometimes render page -unless bold -set title=Hello
  sometimes diff page -cond bold
  sometimes data set title=Hello items='[a, b]'
  sometimes data patch patch.yaml
  sometimes serve -addr :7279`

// MainConfig holds the options shared by every subcommand.
type MainConfig struct {
	ConfigPath string `cli:"name=config aliases=c desc='path to the JSON configuration file' default=config.json"`
	Color      bool   `cli:"name=color desc='colorize markup output'"`
	Plain      bool   `cli:"name=plain desc='never colorize markup output'"`

	Main *cli.Command
}

func main() {
	cli.MainContext(context.Background(), MainCommand())
}

// MainCommand returns the root command.
func MainCommand() *cli.Command {
	cfg := &MainConfig{ConfigPath: "config.json"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "sometimes").
		WithSynopsis("sometimes [opts] command [opts]").
		WithDescription(usageText).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return sometimesMain(cfg, cc, args)
		}).
		WithSubs(
			DemoCommand(cfg),
			RenderCommand(cfg),
			DiffCommand(cfg),
			DataCommand(cfg),
			ServeCommand(cfg),
			VersionCommand(cfg))
}

func sometimesMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Color && cfg.Plain {
		return fmt.Errorf("%w: -color and -plain are mutually exclusive", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// VersionCommand prints build information.
func VersionCommand(mainCfg *MainConfig) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, "version").
		WithSynopsis("version").
		WithDescription("print build information").
		WithRun(func(cc *cli.Context, args []string) error {
			if _, err := cmd.Parse(cc, args); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cc.Out, "sometimes %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return err
		})
}
