package templating

import (
	"errors"
	"fmt"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
	"github.com/goccy/go-yaml"
)

var errNoKind = errors.New("mapping has none of tag, raw, data, expr, group, document or each")

// decode parses template source into its generic YAML form. Mappings are kept
// as yaml.MapSlice so attribute order survives.
func decode(src []byte) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(src, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	return v, nil
}

// builder turns decoded YAML into sometimes elements. Each blocks read their
// collections from store and bind their clones against it.
type builder struct {
	store  *sometimes.Store
	config *TemplateConfig
}

// root builds the top-level element of a template.
func (b *builder) root(v any) (sometimes.Element, error) {
	child, err := b.build(v, 0)
	if err != nil {
		return nil, err
	}
	if e, ok := child.(sometimes.Element); ok {
		return e, nil
	}
	return sometimes.Wrap(child), nil
}

func (b *builder) build(v any, depth int) (any, error) {
	if depth > b.config.MaxDepth {
		return nil, fmt.Errorf("template nesting exceeds max depth %d", b.config.MaxDepth)
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []any:
		children, err := b.buildList(t, depth)
		if err != nil {
			return nil, err
		}
		return sometimes.Wrap(children...), nil
	case yaml.MapSlice:
		return b.buildMapping(t, depth)
	default:
		return t, nil
	}
}

func (b *builder) buildList(items []any, depth int) ([]any, error) {
	out := make([]any, 0, len(items))
	for i, item := range items {
		child, err := b.build(item, depth+1)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

func (b *builder) buildMapping(m yaml.MapSlice, depth int) (any, error) {
	fields := make(map[string]any, len(m))
	for _, item := range m {
		fields[fmt.Sprint(item.Key)] = item.Value
	}

	args, err := b.commonArgs(fields, depth)
	if err != nil {
		return nil, err
	}

	switch {
	case fields["tag"] != nil:
		return sometimes.New(fmt.Sprint(fields["tag"]), args...), nil
	case fields["raw"] != nil:
		return sometimes.Raw(fmt.Sprint(fields["raw"])), nil
	case fields["data"] != nil:
		return sometimes.Data(fmt.Sprint(fields["data"]), args...), nil
	case fields["expr"] != nil:
		if !b.config.AllowExpr {
			return nil, fmt.Errorf("expr nodes are disabled: %q", fields["expr"])
		}
		return sometimes.Expr(fmt.Sprint(fields["expr"]), args...), nil
	case fields["group"] != nil:
		children, err := b.childList(fields["group"], depth)
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		return sometimes.Wrap(append(args, children...)...), nil
	case fields["document"] != nil:
		children, err := b.childList(fields["document"], depth)
		if err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		args = append(args, children...)
		if _, ok := attrsOf(args)["xml:lang"]; !ok && b.config.Lang != "" {
			args = append(args, sometimes.A("xml:lang", b.config.Lang))
		}
		return sometimes.HTML(args...), nil
	case fields["each"] != nil:
		return b.buildEach(fields, args), nil
	}
	return nil, errNoKind
}

// commonArgs collects the attrs, if and children fields shared by every form.
func (b *builder) commonArgs(fields map[string]any, depth int) ([]any, error) {
	var args []any
	if raw, ok := fields["attrs"]; ok {
		attrs, ok := raw.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("attrs must be a mapping, got %T", raw)
		}
		for _, item := range attrs {
			args = append(args, sometimes.A(fmt.Sprint(item.Key), fmt.Sprint(item.Value)))
		}
	}
	if raw, ok := fields["if"]; ok {
		conds, ok := raw.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("if must be a mapping, got %T", raw)
		}
		for _, item := range conds {
			want, ok := item.Value.(bool)
			if !ok {
				return nil, fmt.Errorf("condition %v must be a boolean, got %T", item.Key, item.Value)
			}
			args = append(args, sometimes.Cond(fmt.Sprint(item.Key), want))
		}
	}
	if raw, ok := fields["children"]; ok {
		children, err := b.childList(raw, depth)
		if err != nil {
			return nil, err
		}
		args = append(args, children...)
	}
	return args, nil
}

func (b *builder) childList(raw any, depth int) ([]any, error) {
	items, ok := raw.([]any)
	if !ok {
		items = []any{raw}
	}
	return b.buildList(items, depth)
}

// buildEach expands an each block against the store value it names.
func (b *builder) buildEach(fields map[string]any, args []any) *sometimes.Node {
	var names []any
	switch as := fields["as"].(type) {
	case string:
		names = append(names, as)
	case []any:
		for _, name := range as {
			names = append(names, fmt.Sprint(name))
		}
	}
	entries := collectionEntries(b.store.Get(fmt.Sprint(fields["each"])))
	if limit := b.config.MaxEachEntries; limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	// The body is wrapped so its text children are not taken as loop names.
	return sometimes.ForEachIn(b.store, entries, append(names, sometimes.Wrap(args...))...)
}

// collectionEntries orders a store value for iteration, keeping the order of
// YAML mappings.
func collectionEntries(v any) []sometimes.Pair {
	if m, ok := v.(yaml.MapSlice); ok {
		out := make([]sometimes.Pair, len(m))
		for i, item := range m {
			out[i] = sometimes.Pair{Key: item.Key, Value: item.Value}
		}
		return out
	}
	return sometimes.Entries(v)
}

func attrsOf(args []any) map[string]string {
	out := map[string]string{}
	for _, arg := range args {
		if a, ok := arg.(sometimes.Attr); ok {
			out[a.Key] = a.Value
		}
	}
	return out
}
