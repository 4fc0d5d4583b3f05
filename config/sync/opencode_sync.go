// Package sync implements the pure document transforms that keep the
// OpenCode configuration and accounts files aligned with the Antigravity
// proxy. All functions here operate on in-memory JSON and never fail;
// file I/O lives with the callers.
package sync

import (
	"encoding/json"
	"sort"
	"strings"

	"agsync/config/catalog"
	"agsync/internal/utils"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// ProviderID is the managed provider key inside opencode.json. Only
	// this sub-tree is owned by agsync; everything else belongs to the
	// user or other tools.
	ProviderID = "antigravity-manager"

	providerNPM  = "@ai-sdk/anthropic"
	providerName = "Antigravity Manager"
	schemaURL    = "https://opencode.ai/config.json"
)

// legacyProviders are provider entries that older releases wrote proxy
// settings into. Clear surgically removes our traces from them.
var legacyProviders = []string{"anthropic", "google"}

// pathEscaper escapes characters that gjson/sjson paths treat specially,
// so model ids like "gemini-2.5-pro" address a single map key.
var pathEscaper = strings.NewReplacer("\\", "\\\\", ".", "\\.", "*", "\\*", "?", "\\?")

func escapeKey(key string) string {
	return pathEscaper.Replace(key)
}

// managedPath builds a gjson path under the managed provider entry.
func managedPath(parts ...string) string {
	segs := append([]string{"provider", escapeKey(ProviderID)}, parts...)
	return strings.Join(segs, ".")
}

// setString, setRawJSON and deletePath wrap sjson so the transforms stay
// total: on a path error the document is returned unchanged.
func setString(doc, path, value string) string {
	out, err := sjson.Set(doc, path, value)
	if err != nil {
		return doc
	}
	return out
}

func setRawJSON(doc, path, raw string) string {
	out, err := sjson.SetRaw(doc, path, raw)
	if err != nil {
		return doc
	}
	return out
}

func deletePath(doc, path string) string {
	out, err := sjson.Delete(doc, path)
	if err != nil {
		return doc
	}
	return out
}

// ApplySync injects or updates the managed provider entry in the given
// opencode.json document and returns the new document. Unrelated keys are
// left byte-for-byte untouched; a document that is not a JSON object is
// replaced by an empty one rather than rejected.
//
// modelIDs selects which catalog models to sync; nil means the full
// catalog. Models already present but not selected are never removed, so
// filtered syncs are strictly additive.
func ApplySync(doc, proxyURL, apiKey string, modelIDs []string) string {
	if !gjson.Valid(doc) || !gjson.Parse(doc).IsObject() {
		doc = "{}"
	}

	// $schema is set once and then owned by the user.
	if !gjson.Get(doc, "$schema").Exists() {
		doc = setString(doc, "$schema", schemaURL)
	}

	// The only destructive coercions: a non-object "provider" or managed
	// entry is reset so the required shape can be written.
	if prov := gjson.Get(doc, "provider"); prov.Exists() && !prov.IsObject() {
		doc = setRawJSON(doc, "provider", "{}")
	}
	if managed := gjson.Get(doc, managedPath()); managed.Exists() && !managed.IsObject() {
		doc = setRawJSON(doc, managedPath(), "{}")
	}

	doc = setString(doc, managedPath("npm"), providerNPM)
	doc = setString(doc, managedPath("name"), providerName)

	if opts := gjson.Get(doc, managedPath("options")); opts.Exists() && !opts.IsObject() {
		doc = setRawJSON(doc, managedPath("options"), "{}")
	}
	doc = setString(doc, managedPath("options", "baseURL"), utils.NormalizeBaseURL(proxyURL))
	doc = setString(doc, managedPath("options", "apiKey"), apiKey)

	// The models object is part of the managed shape even when the selector
	// merges nothing into it.
	if models := gjson.Get(doc, managedPath("models")); !models.IsObject() {
		doc = setRawJSON(doc, managedPath("models"), "{}")
	}

	return mergeCatalogModels(doc, modelIDs)
}

// mergeCatalogModels merges the selected catalog entries into the managed
// provider's models map. Existing model entries keep any user-added fields;
// catalog-owned fields always win.
func mergeCatalogModels(doc string, modelIDs []string) string {
	ids := modelIDs
	if ids == nil {
		ids = catalog.IDs()
	}

	for _, id := range ids {
		def, ok := catalog.Lookup(id)
		if !ok {
			continue
		}

		path := managedPath("models", escapeKey(id))
		existing := gjson.Get(doc, path)

		if existing.Exists() && existing.IsObject() {
			doc = setRawJSON(doc, path, mergeModelEntry(existing.Raw, def))
		} else {
			// New model, or an existing non-object value: the full
			// catalog entry replaces it.
			raw, err := json.Marshal(catalog.ModelObject(def))
			if err != nil {
				continue
			}
			doc = setRawJSON(doc, path, string(raw))
		}
	}

	return doc
}

// mergeModelEntry shallow-merges catalog fields over an existing model
// object. User fields unknown to the catalog survive with their original
// bytes; the result is rendered with sorted keys so repeated syncs are
// stable.
func mergeModelEntry(existingRaw string, def catalog.ModelDef) string {
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal([]byte(existingRaw), &merged); err != nil {
		merged = make(map[string]json.RawMessage)
	}

	for key, value := range catalog.ModelObject(def) {
		raw, err := json.Marshal(value)
		if err != nil {
			continue
		}
		merged[key] = raw
	}

	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		name, _ := json.Marshal(key)
		b.Write(name)
		b.WriteByte(':')
		b.Write(merged[key])
	}
	b.WriteByte('}')
	return b.String()
}

// ApplyClear removes the managed provider entry from the document. When
// clearLegacy is set and a proxy URL is known, it also scrubs managed
// model ids and matching proxy credentials from the legacy provider
// entries. Without a proxy URL to compare against, legacy cleanup is
// skipped entirely so unrelated user configuration cannot be destroyed.
func ApplyClear(doc, proxyURL string, clearLegacy bool) string {
	if !gjson.Get(doc, "provider").IsObject() {
		return doc
	}

	doc = deletePath(doc, managedPath())

	if clearLegacy && proxyURL != "" {
		for _, name := range legacyProviders {
			if gjson.Get(doc, "provider."+escapeKey(name)).IsObject() {
				doc = cleanupLegacyProvider(doc, name, proxyURL)
			}
		}
	}

	if prov := gjson.Get(doc, "provider"); prov.IsObject() && len(prov.Map()) == 0 {
		doc = deletePath(doc, "provider")
	}

	return doc
}

// cleanupLegacyProvider removes managed model ids from a legacy provider
// and, when that provider points at our proxy, its baseURL/apiKey pair.
// A legacy provider pointing elsewhere keeps its options untouched.
func cleanupLegacyProvider(doc, name, proxyURL string) string {
	base := "provider." + escapeKey(name)

	modelsPath := base + ".models"
	if models := gjson.Get(doc, modelsPath); models.IsObject() {
		for _, id := range catalog.IDs() {
			doc = deletePath(doc, modelsPath+"."+escapeKey(id))
		}
		if len(gjson.Get(doc, modelsPath).Map()) == 0 {
			doc = deletePath(doc, modelsPath)
		}
	}

	optionsPath := base + ".options"
	if opts := gjson.Get(doc, optionsPath); opts.IsObject() {
		baseURL := opts.Get("baseURL")
		if baseURL.Type == gjson.String && utils.BaseURLMatches(baseURL.Str, proxyURL) {
			doc = deletePath(doc, optionsPath+".baseURL")
			doc = deletePath(doc, optionsPath+".apiKey")
			if len(gjson.Get(doc, optionsPath).Map()) == 0 {
				doc = deletePath(doc, optionsPath)
			}
		}
	}

	return doc
}

// ManagedOptions reports the managed provider's baseURL and apiKey, if both
// are present. Status checks use this to decide whether a document is
// currently synced.
func ManagedOptions(doc string) (baseURL, apiKey string, ok bool) {
	opts := gjson.Get(doc, managedPath("options"))
	if !opts.IsObject() {
		return "", "", false
	}
	u := opts.Get("baseURL")
	k := opts.Get("apiKey")
	if u.Type != gjson.String || k.Type != gjson.String {
		return "", "", false
	}
	return u.Str, k.Str, true
}
