// Package i18n holds the user-facing message catalog.
package i18n

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed en.yaml
var defaultCatalog []byte

// Catalog resolves message keys. An override catalog (e.g. a translation
// loaded from lang.json or lang.yaml) takes precedence over the embedded
// English one; missing keys fall back to English and then to the key.
type Catalog struct {
	mu       sync.RWMutex
	lang     string
	override map[string]string
	en       map[string]string
}

var (
	enOnce sync.Once
	enMsgs map[string]string
	enErr  error
)

func english() (map[string]string, error) {
	enOnce.Do(func() {
		enMsgs, enErr = parse(defaultCatalog)
	})
	return enMsgs, enErr
}

// New returns the English catalog.
func New() *Catalog {
	en, err := english()
	if err != nil {
		// The embedded catalog is part of the binary.
		panic(fmt.Sprintf("i18n: embedded catalog: %v", err))
	}
	return &Catalog{lang: "en", en: en}
}

// Load returns the English catalog overridden by the file at path.
// An empty path yields the plain English catalog.
func Load(path string) (*Catalog, error) {
	c := New()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language file: %w", err)
	}
	if err := c.Override("custom", data); err != nil {
		return nil, fmt.Errorf("failed to load language file %q: %w", path, err)
	}
	return c, nil
}

// Override installs a YAML or JSON map of key to message under lang.
func (c *Catalog) Override(lang string, data []byte) error {
	msgs, err := parse(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang = lang
	c.override = msgs
	return nil
}

// Lang returns the active language name.
func (c *Catalog) Lang() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lang
}

// T formats the message for key with args.
func (c *Catalog) T(key string, args ...any) string {
	c.mu.RLock()
	msg, ok := c.override[key]
	if !ok {
		msg, ok = c.en[key]
	}
	c.mu.RUnlock()
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// parse reads a flat map; JSON is accepted because it is valid YAML.
func parse(data []byte) (map[string]string, error) {
	msgs := make(map[string]string)
	if err := yaml.Unmarshal(data, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
