package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localeFS embed.FS

// Localizer resolves translation keys against the embedded locale tables,
// falling back to en-US when a language has no entry for a key. It is built
// once at process start and shared read-only across requests.
type Localizer struct {
	tables map[Language]map[string]string
}

// NewLocalizer loads every embedded locale table. Missing locale files are
// tolerated; en-US must exist.
func NewLocalizer() (*Localizer, error) {
	tables := make(map[Language]map[string]string, len(languageNames))
	for lang := range languageNames {
		raw, err := localeFS.ReadFile("locales/" + string(lang) + ".json")
		if err != nil {
			continue
		}
		var table map[string]string
		if err := json.Unmarshal(raw, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", lang, err)
		}
		tables[lang] = table
	}
	if _, ok := tables[LanguageEN]; !ok {
		return nil, fmt.Errorf("default locale %s is missing", LanguageEN)
	}
	return &Localizer{tables: tables}, nil
}

// T translates key into lang, falling back to en-US and then to the key itself.
func (l *Localizer) T(lang Language, key string) string {
	if table, ok := l.tables[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	if v, ok := l.tables[LanguageEN][key]; ok {
		return v
	}
	return key
}
