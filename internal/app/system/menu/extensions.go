// internal/app/system/menu/extensions.go
package menu

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Extension is a product-specific contribution declared in the menu
// extensions file:
//
//	extensions:
//	  - section: monitoring
//	    force: true
//	    items:
//	      - key: monitoring-grafana
//	        title: Grafana
//	        target: monitoring.grafana
//	        path: /ext/grafana
type Extension struct {
	Section string `yaml:"section"`
	Force   bool   `yaml:"force,omitempty"`
	Items   []Item `yaml:"items"`
}

type extensionsFile struct {
	Extensions []Extension `yaml:"extensions"`
}

// ParseExtensions decodes an extensions document.
func ParseExtensions(data []byte) ([]Extension, error) {
	var f extensionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("menu: parse extensions: %w", err)
	}
	seen := make(map[string]bool)
	for i, ext := range f.Extensions {
		if ext.Section == "" {
			return nil, fmt.Errorf("menu: extension %d has no section", i)
		}
		if err := validateItems(ext.Items, seen); err != nil {
			return nil, fmt.Errorf("menu: extension %q: %w", ext.Section, err)
		}
	}
	return f.Extensions, nil
}

// LoadExtensions reads and parses an extensions file. An empty path yields
// no extensions.
func LoadExtensions(path string) ([]Extension, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("menu: read extensions: %w", err)
	}
	return ParseExtensions(data)
}

// Apply registers each extension on b.
func Apply(b *Builder, exts []Extension) {
	for _, ext := range exts {
		items := ext.Items
		b.Extend(ext.Section, func(User) []Item { return items })
		if ext.Force {
			b.ForceInclude(ext.Section)
		}
	}
}

// validateItems checks items recursively. Keys must be unique across the
// whole file.
func validateItems(items []Item, seen map[string]bool) error {
	for _, it := range items {
		if it.PageKey == "" {
			return fmt.Errorf("item %q has no key", it.Title)
		}
		if seen[it.PageKey] {
			return fmt.Errorf("duplicate key %q", it.PageKey)
		}
		seen[it.PageKey] = true
		if it.Target != "" && len(it.Children) > 0 {
			return fmt.Errorf("item %q has a target and children", it.PageKey)
		}
		if err := validateItems(it.Children, seen); err != nil {
			return err
		}
	}
	return nil
}
