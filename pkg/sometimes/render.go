package sometimes

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"
)

// Renderer writes trees to an io.Writer. It evaluates conditions against its
// Store and logs skipped elements at debug level.
type Renderer struct {
	logger *slog.Logger
	store  *Store
}

// NewRenderer returns a Renderer bound to store. A nil logger discards log
// output and a nil store selects the global store.
func NewRenderer(logger *slog.Logger, store *Store) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if store == nil {
		store = globalStore
	}
	return &Renderer{logger: logger, store: store}
}

// Store returns the store the renderer evaluates against.
func (r *Renderer) Store() *Store { return r.store }

// Render writes e to w. Elements whose conditions are not met produce no
// output. The only error returned is a failure to write to w.
func (r *Renderer) Render(w io.Writer, e Element, ambient ...Ambient) error {
	rc := &renderContext{w: w, store: r.store, logger: r.logger}
	e.render(rc, ambient)
	if rc.err != nil {
		return fmt.Errorf("failed to write markup: %w", rc.err)
	}
	return nil
}

// String renders e into a string.
func (r *Renderer) String(e Element, ambient ...Ambient) string {
	var sb strings.Builder
	_ = r.Render(&sb, e, ambient...)
	return sb.String()
}

// Render writes e to w using the global store.
func Render(w io.Writer, e Element, ambient ...Ambient) error {
	return NewRenderer(nil, nil).Render(w, e, ambient...)
}

// RenderWith writes e to w evaluating conditions and data against store.
func RenderWith(w io.Writer, store *Store, e Element, ambient ...Ambient) error {
	return NewRenderer(nil, store).Render(w, e, ambient...)
}

// String renders e into a string using the global store.
func String(e Element, ambient ...Ambient) string {
	return NewRenderer(nil, nil).String(e, ambient...)
}

// renderContext is the state of one render pass. The first write error is
// kept and every later write is dropped.
type renderContext struct {
	w      io.Writer
	store  *Store
	logger *slog.Logger
	err    error
}

func (rc *renderContext) write(parts ...string) {
	for _, p := range parts {
		if rc.err != nil {
			return
		}
		_, rc.err = io.WriteString(rc.w, p)
	}
}

func (rc *renderContext) skipped(n *Node) {
	rc.logger.Debug("Skipping element, conditions not met", "tag", n.tag, "conditions", n.conditions)
}

func escape(s string) string {
	return html.EscapeString(s)
}
