package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
)

type DataConfig struct {
	*MainConfig
	Data *cli.Command
}

// DataCommand groups the commands that manage stored values.
func DataCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DataConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Data, "data").
		WithSynopsis("data <subcommand>").
		WithDescription("manage the values templates read from the store").
		WithSubs(
			dataGetCommand(cfg),
			dataSetCommand(cfg),
			dataDelCommand(cfg),
			dataListCommand(cfg),
			dataPatchCommand(cfg))
}

// dataCommand builds a data subcommand whose run function gets an open app.
func dataCommand(cfg *DataConfig, name, synopsis, desc string, run func(a *app, cc *cli.Context, args []string) error) *cli.Command {
	var cmd *cli.Command
	return cli.NewCommandAt(&cmd, name).
		WithSynopsis(synopsis).
		WithDescription(desc).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cmd.Parse(cc, args)
			if err != nil {
				return err
			}
			a, err := openData(context.Background(), cfg.MainConfig)
			if err != nil {
				return err
			}
			defer a.Close()
			return run(a, cc, args)
		})
}

func dataGetCommand(cfg *DataConfig) *cli.Command {
	return dataCommand(cfg, "get", "get <key>", "print a stored value as JSON",
		func(a *app, cc *cli.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: get requires one key, got %v", cli.ErrUsage, args)
			}
			v, ok, err := a.data.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no value stored under %q", args[0])
			}
			return writeJSON(cc.Out, v)
		})
}

func dataSetCommand(cfg *DataConfig) *cli.Command {
	return dataCommand(cfg, "set", "set <key=val>...", "store values; each value is parsed as YAML",
		func(a *app, cc *cli.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: set requires at least one key=val", cli.ErrUsage)
			}
			ctx := context.Background()
			for _, arg := range args {
				key, v, err := parseAssignment(arg)
				if err != nil {
					return err
				}
				if err = a.data.Put(ctx, key, v); err != nil {
					return fmt.Errorf("failed to store %q: %w", key, err)
				}
			}
			return nil
		})
}

func dataDelCommand(cfg *DataConfig) *cli.Command {
	return dataCommand(cfg, "del", "del <key>...", "remove stored values",
		func(a *app, cc *cli.Context, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: del requires at least one key", cli.ErrUsage)
			}
			ctx := context.Background()
			for _, key := range args {
				if err := a.data.Delete(ctx, key); err != nil {
					return fmt.Errorf("failed to delete %q: %w", key, err)
				}
			}
			return nil
		})
}

func dataListCommand(cfg *DataConfig) *cli.Command {
	return dataCommand(cfg, "list", "list", "print every stored key and value",
		func(a *app, cc *cli.Context, args []string) error {
			entries, err := a.data.All(context.Background())
			if err != nil {
				return err
			}
			return writeEntries(cc.Out, entries)
		})
}

// writeEntries prints one "key = json" line per entry in key order.
func writeEntries(w io.Writer, entries map[string]any) error {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		data, err := json.Marshal(entries[key])
		if err != nil {
			return fmt.Errorf("failed to encode %q: %w", key, err)
		}
		if _, err = fmt.Fprintf(w, "%s = %s\n", key, data); err != nil {
			return err
		}
	}
	return nil
}

func dataPatchCommand(cfg *DataConfig) *cli.Command {
	return dataCommand(cfg, "patch", "patch [file]", "apply a JSON or YAML merge patch; null removes a key (reads stdin without a file)",
		func(a *app, cc *cli.Context, args []string) error {
			var (
				src []byte
				err error
			)
			switch len(args) {
			case 0:
				src, err = io.ReadAll(cc.In)
			case 1:
				src, err = os.ReadFile(args[0])
			default:
				return fmt.Errorf("%w: patch takes at most one file, got %v", cli.ErrUsage, args)
			}
			if err != nil {
				return fmt.Errorf("failed to read patch: %w", err)
			}
			patch, err := yaml.YAMLToJSON(src)
			if err != nil {
				return fmt.Errorf("failed to decode patch: %w", err)
			}
			return a.data.Patch(context.Background(), patch)
		})
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
