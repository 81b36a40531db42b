package templating

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/CTAG07/Sometimes/pkg/sometimes"
)

// ErrTemplateNotFound is returned by Execute for names that are not loaded.
var ErrTemplateNotFound = errors.New("template not found")

const templateSuffix = ".tmpl.yaml"

// TemplateManager is the central controller for loading templates. It keeps
// the parsed template set, the configuration and the store templates are
// built and rendered against. All methods are concurrent-safe.
type TemplateManager struct {
	logger      *slog.Logger
	config      *TemplateConfig
	store       *sometimes.Store
	templates   map[string]any
	templateDir string
	mu          sync.RWMutex
}

// NewTemplateManager creates, initializes, and returns a new TemplateManager.
// Templates are read from the "templates" subdirectory of dataDir. A nil
// store selects the global store. It performs an initial Refresh.
func NewTemplateManager(logger *slog.Logger, store *sometimes.Store, config *TemplateConfig, dataDir string) (*TemplateManager, error) {
	if store == nil {
		store = sometimes.Global()
	}
	if config == nil {
		config = DefaultConfig()
	}
	tm := &TemplateManager{
		logger:      logger,
		config:      config,
		store:       store,
		templates:   map[string]any{},
		templateDir: filepath.Join(dataDir, "templates"),
	}

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized")
	return tm, nil
}

// SetConfig applies a new configuration. It takes effect for templates built
// after the call; call Refresh to revalidate the loaded set against it.
func (tm *TemplateManager) SetConfig(config *TemplateConfig) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.config = config
}

// Refresh reloads all templates from the filesystem. Every template is
// test-built against a scratch store, and the loaded set is only replaced
// if all of them succeed.
func (tm *TemplateManager) Refresh() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	filePattern := filepath.Join(tm.templateDir, "*"+templateSuffix)
	tm.logger.Info("Loading template files...")

	paths, err := filepath.Glob(filePattern)
	if err != nil {
		tm.logger.Error("failed to list template files", "error", err)
		return err
	}
	if len(paths) == 0 {
		tm.logger.Warn("No template files found matching pattern", "pattern", filePattern)
	}

	check := &builder{store: sometimes.NewStore(), config: tm.config}
	templates := make(map[string]any, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		src, err := os.ReadFile(path)
		if err != nil {
			tm.logger.Error("failed to read template file", "template", name, "error", err)
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		doc, err := decode(src)
		if err != nil {
			tm.logger.Error("failed to parse template file", "template", name, "error", err)
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		if _, err = check.root(doc); err != nil {
			tm.logger.Error("failed to build template", "template", name, "error", err)
			return fmt.Errorf("failed to build template %s: %w", name, err)
		}
		templates[name] = doc
	}

	tm.templates = templates
	tm.logger.Info("Loaded template files", "count", len(templates))
	return nil
}

// Load builds a fresh tree for the named template. The name may be given
// with or without the ".tmpl.yaml" suffix. Unknown names return nil, false.
// The tree is built against a copy of the store, so loop variables never
// reach the shared store.
func (tm *TemplateManager) Load(name string) (sometimes.Element, bool) {
	return tm.load(name, tm.store.Clone())
}

func (tm *TemplateManager) load(name string, store *sometimes.Store) (sometimes.Element, bool) {
	tm.mu.RLock()
	doc, ok := tm.templates[tm.canonicalName(name)]
	config := tm.config
	tm.mu.RUnlock()
	if !ok {
		return nil, false
	}
	b := &builder{store: store, config: config}
	root, err := b.root(doc)
	if err != nil {
		// The set was validated on Refresh, so this only happens when the
		// config changed since.
		tm.logger.Warn("Template no longer builds", "template", name, "error", err)
		return nil, false
	}
	return root, true
}

// Execute builds the named template and renders it to w. Each call works on
// its own copy of the store, taken once at the start.
func (tm *TemplateManager) Execute(w io.Writer, name string, ambient ...sometimes.Ambient) error {
	store := tm.store.Clone()
	root, ok := tm.load(name, store)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return sometimes.NewRenderer(tm.logger, store).Render(w, root, ambient...)
}

// ExecuteTemplateString parses and renders a raw template source without
// adding it to the loaded set. This is ideal for testing or previewing
// templates without saving them to disk.
func (tm *TemplateManager) ExecuteTemplateString(w io.Writer, content string, ambient ...sometimes.Ambient) error {
	doc, err := decode([]byte(content))
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	store := tm.store.Clone()
	tm.mu.RLock()
	b := &builder{store: store, config: tm.config}
	tm.mu.RUnlock()
	root, err := b.root(doc)
	if err != nil {
		return fmt.Errorf("failed to build string template: %w", err)
	}
	return sometimes.NewRenderer(tm.logger, store).Render(w, root, ambient...)
}

// GetConfig returns a copy of the current configuration.
func (tm *TemplateManager) GetConfig() TemplateConfig {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return *tm.config
}

// GetTemplateNames returns the sorted names of the loaded templates.
func (tm *TemplateManager) GetTemplateNames() []string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTemplateDir returns the template dir that the TemplateManager uses.
func (tm *TemplateManager) GetTemplateDir() string {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return tm.templateDir
}

// Store returns the store templates are built and rendered against.
func (tm *TemplateManager) Store() *sometimes.Store {
	return tm.store
}

func (tm *TemplateManager) canonicalName(name string) string {
	if strings.HasSuffix(name, templateSuffix) {
		return name
	}
	return name + templateSuffix
}
