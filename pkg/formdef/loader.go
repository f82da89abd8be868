package formdef

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds loaded definitions keyed by form name, preserving the order
// files were discovered in.
type Store struct {
	definitions map[string]Definition
	order       []string
}

// LoadFS walks the provided filesystem and parses every JSON/YAML definition
// file. When fsys is nil or holds no definition files, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{definitions: make(map[string]Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}

		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			return fmt.Errorf("formdef: parse %s: %w", path, err)
		}
		if err := checkDefinition(def, path); err != nil {
			return err
		}

		name := strings.TrimSpace(def.Form)
		if _, exists := store.definitions[name]; exists {
			return fmt.Errorf("formdef: duplicate form %q (file %s)", name, path)
		}
		store.definitions[name] = def
		store.order = append(store.order, name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Definition returns the definition registered under the supplied name.
func (s *Store) Definition(name string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.definitions[name]
	return def, ok
}

// Names lists the registered form names in load order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Empty reports whether the store holds any definitions.
func (s *Store) Empty() bool {
	return s == nil || len(s.definitions) == 0
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func checkDefinition(def Definition, path string) error {
	if strings.TrimSpace(def.Form) == "" {
		return fmt.Errorf("formdef: file %s defines an empty form name", path)
	}
	if strings.TrimSpace(def.Endpoint) == "" {
		return fmt.Errorf("formdef: form %q (file %s) has no endpoint", def.Form, path)
	}
	if len(def.Fields) == 0 {
		return fmt.Errorf("formdef: form %q (file %s) declares no fields", def.Form, path)
	}
	for _, slot := range def.Slots {
		if strings.TrimSpace(slot.Naming) == "" {
			return fmt.Errorf("formdef: form %q slot %q declares no naming convention (file %s)", def.Form, slot.Name, path)
		}
	}
	return nil
}
