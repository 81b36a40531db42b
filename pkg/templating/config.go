package templating

// TemplateConfig holds all configuration options for the template loader.
type TemplateConfig struct {
	// MaxDepth is the deepest element nesting a template may declare.
	// Deeper templates are rejected when they are loaded.
	MaxDepth int `json:"max_depth"`

	// MaxEachEntries caps the number of iterations of a single each block.
	// Entries past the cap are dropped.
	MaxEachEntries int `json:"max_each_entries"`

	// AllowExpr controls whether expr nodes are accepted.
	AllowExpr bool `json:"allow_expr"`

	// Lang is the xml:lang given to document roots that do not set one.
	Lang string `json:"lang"`
}

// DefaultConfig returns a TemplateConfig with safe default values.
func DefaultConfig() *TemplateConfig {
	return &TemplateConfig{
		MaxDepth:       64,
		MaxEachEntries: 1000,
		AllowExpr:      true,
		Lang:           "en",
	}
}
