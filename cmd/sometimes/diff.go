package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"
)

type DiffConfig struct {
	*MainConfig
	Cond string `cli:"name=cond desc='store key rendered as true, then as false'"`

	Diff *cli.Command
}

// DiffCommand shows how a template's output changes with one store key.
func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff -cond <key> <name>").
		WithDescription("render a template with key true and with key false and show the difference").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: diff requires exactly one template name, got %v", cli.ErrUsage, args)
	}
	if cfg.Cond == "" {
		return fmt.Errorf("%w: -cond is required", cli.ErrUsage)
	}
	a, err := openApp(context.Background(), cfg.MainConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	a.store.Set(cfg.Cond, true)
	on, err := executeTemplate(a.tm, args[0])
	if err != nil {
		return err
	}
	a.store.Set(cfg.Cond, false)
	off, err := executeTemplate(a.tm, args[0])
	if err != nil {
		return err
	}

	diffs, differs := markupDiff(on, off)
	if !differs {
		_, err = fmt.Fprintf(cc.Out, "%s does not depend on %q\n", args[0], cfg.Cond)
		return err
	}
	dmp := diffmatchpatch.New()
	var out string
	if useColor(cfg.MainConfig, cc.Out) {
		out = dmp.DiffPrettyText(diffs)
	} else {
		out = plainDiff(diffs)
	}
	if _, err = fmt.Fprintln(cc.Out, out); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// markupDiff diffs the output for the true case against the false case.
func markupDiff(on, off string) ([]diffmatchpatch.Diff, bool) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(on, off, false))
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return diffs, true
		}
	}
	return diffs, false
}

// plainDiff marks removed text with [-...-] and added text with {+...+}.
func plainDiff(diffs []diffmatchpatch.Diff) string {
	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		default:
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}
