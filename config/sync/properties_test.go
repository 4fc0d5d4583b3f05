package sync

import (
	"encoding/json"
	"testing"

	"agsync/internal/utils"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/tidwall/gjson"
)

// documentGen produces arbitrary top-level documents: valid objects with
// unrelated keys, plus hostile shapes the engine must coerce.
func documentGen() gopter.Gen {
	objectGen := gen.MapOf(gen.Identifier(), gen.AnyString()).Map(func(m map[string]string) string {
		raw, _ := json.Marshal(m)
		return string(raw)
	})
	return gen.OneGenOf(
		objectGen,
		gen.OneConstOf(`{}`, `[]`, `"text"`, `42`, `null`, `{broken`,
			`{"provider":"oops"}`, `{"provider":{"antigravity-manager":7}}`),
	)
}

func urlGen() gopter.Gen {
	return gen.OneConstOf(
		"http://localhost:3000",
		"http://localhost:3000/",
		"http://localhost:3000/v1",
		"http://localhost:3000/v1/",
		"https://proxy.internal:8045",
	)
}

func TestPropertySyncIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("applying sync twice equals applying it once", prop.ForAll(
		func(doc, url, key string) bool {
			once := ApplySync(doc, url, key, nil)
			twice := ApplySync(once, url, key, nil)
			return once == twice
		},
		documentGen(), urlGen(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestPropertySyncPreservesUnrelatedKeys(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("unrelated top-level keys survive sync and clear", prop.ForAll(
		func(unrelated map[string]string, url, key string) bool {
			raw, _ := json.Marshal(unrelated)
			doc := string(raw)

			synced := ApplySync(doc, url, key, nil)
			cleared := ApplyClear(synced, url, false)

			for k, v := range unrelated {
				if k == "provider" || k == "$schema" {
					continue
				}
				want, _ := json.Marshal(v)
				if gjson.Get(synced, escapeKey(k)).Raw != string(want) {
					return false
				}
				if gjson.Get(cleared, escapeKey(k)).Raw != string(want) {
					return false
				}
			}
			return true
		},
		gen.MapOf(gen.Identifier(), gen.AnyString()), urlGen(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestPropertyClearInvertsSyncOnManagedKey(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("clear removes exactly the managed provider", prop.ForAll(
		func(url, key string) bool {
			synced := ApplySync("{}", url, key, nil)
			cleared := ApplyClear(synced, url, false)
			// Only $schema may remain: it is set once and user-owned after.
			if gjson.Get(cleared, managedPath()).Exists() {
				return false
			}
			return !gjson.Get(cleared, "provider").Exists()
		},
		urlGen(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestPropertyNormalizedURLAlwaysSingleV1(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("synced baseURL ends with exactly one /v1", prop.ForAll(
		func(doc, url, key string) bool {
			result := ApplySync(doc, url, key, nil)
			baseURL := gjson.Get(result, managedPath("options", "baseURL")).Str
			if baseURL != utils.NormalizeBaseURL(url) {
				return false
			}
			return len(baseURL) < 6 || baseURL[len(baseURL)-6:] != "/v1/v1"
		},
		documentGen(), urlGen(), gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestPropertyReconcilePreservesCooldownState(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	accountGen := gopter.CombineGens(
		gen.Identifier(), // refresh token
		gen.Identifier(), // email local part
		gen.Int64Range(0, 1<<40),
		gen.Int64Range(0, 1<<40),
	)

	properties.Property("matched records keep cooldown, max lastUsed", prop.ForAll(
		func(values []interface{}) bool {
			token := values[0].(string)
			email := values[1].(string) + "@example.com"
			cooldown := values[2].(int64)
			lastUsedOld := values[3].(int64)

			existing := PluginAccountsFile{
				Version: AccountsSchemaVersion,
				Accounts: []PluginAccount{{
					Email:            email,
					RefreshToken:     token,
					AddedAt:          111,
					LastUsed:         lastUsedOld,
					CoolingDownUntil: &cooldown,
					CooldownReason:   "quota",
				}},
				ActiveIndexByFamily: map[string]int{},
			}
			raw, _ := json.Marshal(existing)

			lastUsedNew := lastUsedOld / 2
			out := reconcileOne(email, token, lastUsedNew, raw)

			if len(out.Accounts) != 1 {
				return false
			}
			rec := out.Accounts[0]
			if rec.CoolingDownUntil == nil || *rec.CoolingDownUntil != cooldown {
				return false
			}
			if rec.AddedAt != 111 {
				return false
			}
			want := lastUsedOld
			if lastUsedNew > want {
				want = lastUsedNew
			}
			return rec.LastUsed == want
		},
		accountGen,
	))

	properties.TestingRun(t)
}
