// Package config loads program declaration files into syntax trees.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/rcache/internal/core/domain"
	"go.trai.ch/rcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ProgramLoader = (*Loader)(nil)

// Loader implements ports.ProgramLoader for YAML program files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a Loader. logger may be nil.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads the program file at path. The returned file node is named by the
// cleaned path.
func (l *Loader) Load(path string) (*domain.Node, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrConfigReadFailed, err), "failed to load program"), "path", path)
	}

	file, err := Parse(path, data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load program"), "path", path)
	}
	if len(file.Children) == 0 && l.logger != nil {
		l.logger.Warn(fmt.Sprintf("%s declares no classes", path))
	}
	return file, nil
}

// Parse builds the file node for the program file content data read from path.
func Parse(path string, data []byte) (*domain.Node, error) {
	var pf Programfile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, errors.Join(domain.ErrConfigParseFailed, err)
	}

	file := domain.NewFile(path, pf.Package)
	seen := make(map[string]bool, len(pf.Classes))
	for i := range pf.Classes {
		item := &pf.Classes[i]

		var dto ClassDTO
		if err := item.Decode(&dto); err != nil {
			return nil, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "line", item.Line)
		}
		class, err := buildClass(item, dto)
		if err != nil {
			return nil, err
		}
		if seen[class.Name] {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrDuplicateClass, "invalid program"), "class", class.Name), "line", item.Line)
		}
		seen[class.Name] = true
		file.AddChild(class)
	}
	return file, nil
}

func buildClass(item *yaml.Node, dto ClassDTO) (*domain.Node, error) {
	if dto.Name == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrMissingClassName, "invalid program"), "line", item.Line)
	}
	invalid := func(sentinel error, key string, value any) error {
		return zerr.With(zerr.With(zerr.Wrap(sentinel, "invalid class "+dto.Name), key, value), "line", item.Line)
	}

	params := make(map[string]bool, len(dto.Params))
	for _, p := range dto.Params {
		if params[p] {
			return nil, invalid(domain.ErrDuplicateParam, "param", p)
		}
		params[p] = true
	}

	class := domain.NewClass(dto.Name, dto.Params, item.Line)
	class.Interface = dto.Interface

	if dto.Extends != "" {
		expr, err := domain.ParseTypeExpr(dto.Extends)
		if err != nil {
			return nil, invalid(err, "extends", dto.Extends)
		}
		class.AddChild(domain.NewTypeRef(expr, domain.RoleExtends, keyLine(item, "extends")))
	}
	for _, impl := range dto.Implements {
		expr, err := domain.ParseTypeExpr(impl)
		if err != nil {
			return nil, invalid(err, "implements", impl)
		}
		class.AddChild(domain.NewTypeRef(expr, domain.RoleImplements, keyLine(item, "implements")))
	}
	return class, nil
}

// keyLine returns the line of key inside the mapping m, or the line of m.
func keyLine(m *yaml.Node, key string) int {
	if m.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == key {
				return m.Content[i].Line
			}
		}
	}
	return m.Line
}
