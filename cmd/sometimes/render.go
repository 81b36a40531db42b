package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
	"github.com/CTAG07/Sometimes/pkg/templating"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

type RenderConfig struct {
	*MainConfig
	If     []string
	Unless []string
	Set    map[string]any

	Render *cli.Command
}

// ambient turns the -if and -unless options into ambient conditions.
func (cfg *RenderConfig) ambient() []sometimes.Ambient {
	var out []sometimes.Ambient
	for _, k := range cfg.If {
		out = append(out, sometimes.If(k))
	}
	for _, k := range cfg.Unless {
		out = append(out, sometimes.Unless(k))
	}
	return out
}

func appendOpt(dst *[]string) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, a string) (any, error) {
		*dst = append(*dst, a)
		return a, nil
	})
}

func setOpt(env map[string]any) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, a string) (any, error) {
		key, v, err := parseAssignment(a)
		if err != nil {
			return nil, err
		}
		env[key] = v
		return v, nil
	})
}

// parseAssignment splits key=value and decodes the value as YAML, so
// "n=3" yields an integer and "xs=[a, b]" a list.
func parseAssignment(a string) (string, any, error) {
	key, val, ok := strings.Cut(a, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
	}
	var v any
	if err := yaml.Unmarshal([]byte(val), &v); err != nil {
		return "", nil, fmt.Errorf("invalid value for %q: %w", key, err)
	}
	return key, v, nil
}

func renderOpts(cfg *RenderConfig) []*cli.Opt {
	return []*cli.Opt{
		{
			Name:        "if",
			Description: "treat key as true for this render (repeatable)",
			Type:        cli.NamedFuncOpt(appendOpt(&cfg.If), "(key)"),
		},
		{
			Name:        "unless",
			Description: "treat key as false for this render (repeatable)",
			Type:        cli.NamedFuncOpt(appendOpt(&cfg.Unless), "(key)"),
		},
		{
			Name:        "set",
			Description: "set a store value for this render only (repeatable)",
			Type:        cli.NamedFuncOpt(setOpt(cfg.Set), "(key=val)"),
		},
	}
}

// RenderCommand renders a named template to stdout.
func RenderCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RenderConfig{MainConfig: mainCfg, Set: map[string]any{}}
	return cli.NewCommandAt(&cfg.Render, "render").
		WithAliases("r").
		WithSynopsis("render [-if key]... [-unless key]... [-set key=val]... <name>").
		WithDescription("render a template with the stored data").
		WithOpts(renderOpts(cfg)...).
		WithRun(func(cc *cli.Context, args []string) error {
			return render(cfg, cc, args)
		})
}

func render(cfg *RenderConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Render.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: render requires exactly one template name, got %v", cli.ErrUsage, args)
	}
	a, err := openApp(context.Background(), cfg.MainConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	for k, v := range cfg.Set {
		a.store.Set(k, v)
	}
	markup, err := executeTemplate(a.tm, args[0], cfg.ambient()...)
	if err != nil {
		return err
	}
	if useColor(cfg.MainConfig, cc.Out) {
		markup = highlight(markup, newPalette())
	}
	_, err = fmt.Fprintln(cc.Out, markup)
	return err
}

func executeTemplate(tm *templating.TemplateManager, name string, ambient ...sometimes.Ambient) (string, error) {
	var buf bytes.Buffer
	if err := tm.Execute(&buf, name, ambient...); err != nil {
		if errors.Is(err, templating.ErrTemplateNotFound) {
			return "", fmt.Errorf("no template named %q in %s", name, tm.GetTemplateDir())
		}
		return "", err
	}
	return buf.String(), nil
}
