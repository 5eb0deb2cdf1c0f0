// Package i18n looks up user facing strings in a message catalog.
package i18n

import (
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// LanguageEnvVar selects the catalog language. It falls back to LANG.
const LanguageEnvVar = "LEADCTL_LANG"

var (
	mu      sync.RWMutex
	tag     = detect()
	builder = catalog.NewBuilder(catalog.Fallback(language.English))
)

func detect() language.Tag {
	for _, name := range []string{LanguageEnvVar, "LANG"} {
		v := os.Getenv(name)
		// LANG values look like en_US.UTF-8
		v, _, _ = strings.Cut(v, ".")
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if t, err := language.Parse(strings.ReplaceAll(v, "_", "-")); err == nil {
			return t
		}
	}
	return language.English
}

// SetLanguage changes the language used by T.
func SetLanguage(t language.Tag) {
	mu.Lock()
	defer mu.Unlock()
	tag = t
}

// Register adds a translation of key for t.
func Register(t language.Tag, key, msg string) error {
	mu.Lock()
	defer mu.Unlock()
	return builder.SetString(t, key, msg)
}

// T translates a key to a string. The first parameter identifies
// a message to translate. The second parameter is the default
// string to return if the key is not found.
func T(key string, defaultValue string) string {
	mu.RLock()
	defer mu.RUnlock()
	p := message.NewPrinter(tag, message.Catalog(builder))
	if out := p.Sprintf(key); out != key {
		return out
	}
	return defaultValue
}
