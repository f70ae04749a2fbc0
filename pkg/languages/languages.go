// Package languages maps programming language codes to display metadata for
// the host renderer. The default catalog is embedded; deployments can load a
// replacement file to cover additional judge languages.
package languages

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var defaultCatalogYAML []byte

// Entry describes one language of the catalog.
type Entry struct {
	Code       string `yaml:"code"`        // Judge language code (e.g. "cc")
	Display    string `yaml:"display"`     // Human display name (e.g. "C++")
	Icon       string `yaml:"icon"`        // Display icon
	CanAnalyze bool   `yaml:"can_analyze"` // Whether the detection engine supports it
}

// catalogFile is the on-disk shape of a catalog document.
type catalogFile struct {
	Languages []Entry `yaml:"languages"`
}

// Catalog resolves language codes to display metadata. Immutable after load;
// safe for concurrent use.
type Catalog struct {
	byCode map[string]Entry
	order  []string
}

// Default returns the embedded catalog. The embedded file is part of the
// build, so a decode failure is a programming error and panics at startup.
func Default() *Catalog {
	c, err := parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded language catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from a YAML file, for deployments that support
// more languages than the embedded default.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read language catalog: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse language catalog %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Languages) == 0 {
		return nil, fmt.Errorf("catalog contains no languages")
	}

	c := &Catalog{byCode: make(map[string]Entry, len(file.Languages))}
	for _, entry := range file.Languages {
		if entry.Code == "" {
			return nil, fmt.Errorf("catalog entry missing code")
		}
		if _, dup := c.byCode[entry.Code]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", entry.Code)
		}
		c.byCode[entry.Code] = entry
		c.order = append(c.order, entry.Code)
	}
	return c, nil
}

// DisplayName returns the display name for a language code. Unknown codes
// fall back to the upper-cased code so every language stays presentable.
func (c *Catalog) DisplayName(code string) string {
	if entry, ok := c.byCode[code]; ok {
		return entry.Display
	}
	return strings.ToUpper(code)
}

// Icon returns the display icon for a language code, or a generic icon for
// unknown codes.
func (c *Catalog) Icon(code string) string {
	if entry, ok := c.byCode[code]; ok {
		return entry.Icon
	}
	return "📝"
}

// Supported returns the number of languages in the catalog.
func (c *Catalog) Supported() int {
	return len(c.byCode)
}

// Analyzable returns the number of catalog languages the engine can analyze.
func (c *Catalog) Analyzable() int {
	n := 0
	for _, entry := range c.byCode {
		if entry.CanAnalyze {
			n++
		}
	}
	return n
}

// Codes returns the catalog's language codes in file order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
