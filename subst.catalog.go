package subst

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// CatalogFormat identifies the encoding of a catalog document.
type CatalogFormat string

// Catalog is a named collection of template sources, typically loaded from a
// YAML or TOML file and registered into an Engine.
type Catalog struct {
	Templates []CatalogEntry `yaml:"templates" toml:"templates"`
}

// CatalogEntry is one named template in a catalog.
type CatalogEntry struct {
	Name        string `yaml:"name" toml:"name"`
	Source      string `yaml:"source" toml:"source"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
}

// ParseCatalog decodes and validates a catalog document.
// Every entry must have a unique, non-empty name and a source that parses.
func ParseCatalog(data []byte, format CatalogFormat) (*Catalog, error) {
	var catalog Catalog

	switch format {
	case CatalogFormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty document decodes to io.EOF and yields an empty catalog
		if err := decoder.Decode(&catalog); err != nil && !errors.Is(err, io.EOF) {
			return nil, NewCatalogError(ErrMsgCatalogDecode, -1, "", err)
		}
	case CatalogFormatTOML:
		meta, err := toml.Decode(string(data), &catalog)
		if err != nil {
			return nil, NewCatalogError(ErrMsgCatalogDecode, -1, "", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, NewCatalogError(ErrMsgCatalogDecode, -1, "", fmt.Errorf(ErrFmtCatalogUnknownKey, undecoded[0].String()))
		}
	default:
		return nil, NewCatalogFormatError(string(format))
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// Validate checks entry names and parses every source.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Templates))
	for i, entry := range c.Templates {
		if entry.Name == "" {
			return NewCatalogError(ErrMsgCatalogEmptyName, i, "", nil)
		}
		if _, dup := seen[entry.Name]; dup {
			return NewCatalogError(ErrMsgCatalogDuplicateName, i, entry.Name, nil)
		}
		seen[entry.Name] = struct{}{}

		if _, err := Parse(entry.Source); err != nil {
			return NewCatalogError(ErrMsgCatalogInvalidSource, i, entry.Name, err)
		}
	}
	return nil
}

// Names returns entry names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Templates))
	for i, entry := range c.Templates {
		names[i] = entry.Name
	}
	return names
}

// CatalogFormatFromPath picks a catalog format from a file extension.
// Unknown extensions return false.
func CatalogFormatFromPath(path string) (CatalogFormat, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case CatalogExtYAML, CatalogExtYML:
		return CatalogFormatYAML, true
	case CatalogExtTOML:
		return CatalogFormatTOML, true
	default:
		return "", false
	}
}
