// Package catalog holds the static table of models served through the
// Antigravity proxy provider, together with their OpenCode metadata.
package catalog

// VariantFamily identifies how a model's thinking variants are rendered.
type VariantFamily int

const (
	// VariantNone means the model has no variants object.
	VariantNone VariantFamily = iota
	// VariantClaudeThinking renders budget_tokens variants for Claude models.
	VariantClaudeThinking
	// VariantGemini3Pro renders low/high thinkingLevel variants.
	VariantGemini3Pro
	// VariantGemini3Flash renders minimal/low/medium/high thinkingLevel variants.
	VariantGemini3Flash
	// VariantGemini25Thinking renders budget_tokens variants with the
	// Gemini 2.5 budget table.
	VariantGemini25Thinking
)

// ModelDef describes a single catalog model.
type ModelDef struct {
	ID               string
	Name             string
	ContextLimit     int
	OutputLimit      int
	InputModalities  []string
	OutputModalities []string
	Reasoning        bool
	Variants         VariantFamily
}

// models is the fixed, ordered catalog. The order here is the order models
// are presented in selection UIs.
var models = []ModelDef{
	{
		ID:               "claude-sonnet-4-5",
		Name:             "Claude Sonnet 4.5",
		ContextLimit:     200_000,
		OutputLimit:      64_000,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
	},
	{
		ID:               "claude-sonnet-4-5-thinking",
		Name:             "Claude Sonnet 4.5 Thinking",
		ContextLimit:     200_000,
		OutputLimit:      64_000,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
		Reasoning:        true,
		Variants:         VariantClaudeThinking,
	},
	{
		ID:               "claude-opus-4-5-thinking",
		Name:             "Claude Opus 4.5 Thinking",
		ContextLimit:     200_000,
		OutputLimit:      64_000,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
		Reasoning:        true,
		Variants:         VariantClaudeThinking,
	},
	{
		ID:               "gemini-3-pro-high",
		Name:             "Gemini 3 Pro High",
		ContextLimit:     1_048_576,
		OutputLimit:      65_535,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text", "image"},
		Reasoning:        true,
		Variants:         VariantGemini3Pro,
	},
	{
		ID:               "gemini-3-pro-low",
		Name:             "Gemini 3 Pro Low",
		ContextLimit:     1_048_576,
		OutputLimit:      65_535,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text", "image"},
		Reasoning:        true,
		Variants:         VariantGemini3Pro,
	},
	{
		ID:               "gemini-3-flash",
		Name:             "Gemini 3 Flash",
		ContextLimit:     1_048_576,
		OutputLimit:      65_536,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
		Reasoning:        true,
		Variants:         VariantGemini3Flash,
	},
	{
		ID:               "gemini-3-pro-image",
		Name:             "Gemini 3 Pro Image",
		ContextLimit:     1_048_576,
		OutputLimit:      65_535,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text", "image"},
	},
	{
		ID:               "gemini-2.5-flash",
		Name:             "Gemini 2.5 Flash",
		ContextLimit:     1_048_576,
		OutputLimit:      65_536,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
	},
	{
		ID:               "gemini-2.5-flash-lite",
		Name:             "Gemini 2.5 Flash Lite",
		ContextLimit:     1_048_576,
		OutputLimit:      65_536,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
	},
	{
		ID:               "gemini-2.5-flash-thinking",
		Name:             "Gemini 2.5 Flash Thinking",
		ContextLimit:     1_048_576,
		OutputLimit:      65_536,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
		Reasoning:        true,
		Variants:         VariantGemini25Thinking,
	},
	{
		ID:               "gemini-2.5-pro",
		Name:             "Gemini 2.5 Pro",
		ContextLimit:     1_048_576,
		OutputLimit:      65_536,
		InputModalities:  []string{"text", "image", "pdf"},
		OutputModalities: []string{"text"},
		Reasoning:        true,
	},
}

// byID is built once at init; the catalog is immutable afterwards.
var byID = func() map[string]ModelDef {
	m := make(map[string]ModelDef, len(models))
	for _, def := range models {
		m[def.ID] = def
	}
	return m
}()

// Models returns the ordered catalog.
func Models() []ModelDef {
	return models
}

// Lookup returns the catalog entry for the given model id.
func Lookup(id string) (ModelDef, bool) {
	def, ok := byID[id]
	return def, ok
}

// IDs returns all catalog model ids in catalog order.
func IDs() []string {
	ids := make([]string, len(models))
	for i, def := range models {
		ids[i] = def.ID
	}
	return ids
}

// budgetVariant renders the thinkingBudget/budget_tokens fragment shared by
// the Claude and Gemini 2.5 thinking families.
func budgetVariant(budget int) map[string]any {
	return map[string]any{
		"thinkingConfig": map[string]any{
			"thinkingBudget": budget,
		},
		"thinking": map[string]any{
			"type":          "enabled",
			"budget_tokens": budget,
		},
	}
}

// levelVariant renders the thinkingLevel fragment used by Gemini 3 models.
func levelVariant(level string) map[string]any {
	return map[string]any{"thinkingLevel": level}
}

// VariantsObject renders the variants map for a family, or nil when the
// family has none.
func VariantsObject(family VariantFamily) map[string]any {
	switch family {
	case VariantClaudeThinking:
		return map[string]any{
			"low":    budgetVariant(8192),
			"medium": budgetVariant(16384),
			"high":   budgetVariant(24576),
			"max":    budgetVariant(32768),
		}
	case VariantGemini25Thinking:
		return map[string]any{
			"low":    budgetVariant(8192),
			"medium": budgetVariant(12288),
			"high":   budgetVariant(16384),
			"max":    budgetVariant(24576),
		}
	case VariantGemini3Pro:
		return map[string]any{
			"low":  levelVariant("low"),
			"high": levelVariant("high"),
		}
	case VariantGemini3Flash:
		return map[string]any{
			"minimal": levelVariant("minimal"),
			"low":     levelVariant("low"),
			"medium":  levelVariant("medium"),
			"high":    levelVariant("high"),
		}
	default:
		return nil
	}
}

// ModelObject renders the full OpenCode model metadata object for a
// catalog entry.
func ModelObject(def ModelDef) map[string]any {
	obj := map[string]any{
		"name": def.Name,
		"limit": map[string]any{
			"context": def.ContextLimit,
			"output":  def.OutputLimit,
		},
		"modalities": map[string]any{
			"input":  def.InputModalities,
			"output": def.OutputModalities,
		},
	}
	if def.Reasoning {
		obj["reasoning"] = true
	}
	if variants := VariantsObject(def.Variants); variants != nil {
		obj["variants"] = variants
	}
	return obj
}
