package main

import (
	"fmt"
	"io"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
	"github.com/scott-cotton/cli"
)

type DemoConfig struct {
	*MainConfig
	Demo *cli.Command
}

// DemoCommand renders a fixed document twice, once per value of "bold".
func DemoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DemoConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Demo, "demo").
		WithSynopsis("demo").
		WithDescription("render the sample document with bold on and off").
		WithRun(func(cc *cli.Context, args []string) error {
			if _, err := cfg.Demo.Parse(cc, args); err != nil {
				return err
			}
			return runDemo(cc.Out, useColor(cfg.MainConfig, cc.Out))
		})
}

func demoDocument() *sometimes.Document {
	return sometimes.HTML(
		sometimes.Div(sometimes.Attrs{{Key: "id", Value: "everything"}, {Key: "class", Value: "foo"}},
			sometimes.P(
				"This is a ",
				sometimes.Strong(sometimes.If("bold"), "bold"),
				sometimes.Span(sometimes.Unless("bold"), "plain"),
				" sentence.",
			),
			sometimes.P(sometimes.Data("foo")),
		),
	)
}

func runDemo(w io.Writer, colored bool) error {
	store := sometimes.NewStore()
	store.Set("foo", "bar")
	r := sometimes.NewRenderer(nil, store)

	for _, bold := range []bool{true, false} {
		markup := r.String(demoDocument(), sometimes.Cond("bold", bold))
		if colored {
			markup = highlight(markup, newPalette())
		}
		if _, err := fmt.Fprint(w, markup, "\n\n"); err != nil {
			return err
		}
	}
	return nil
}
