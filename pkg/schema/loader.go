// Package schema reads form declarations from JSON/YAML documents and from
// OpenAPI component schemas.
package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-callbackform/pkg/model"
)

// Parse decodes a JSON or YAML document into a checked Schema. source is only
// used in error messages.
func Parse(data []byte, source string) (model.Schema, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return model.Schema{}, fmt.Errorf("schema: %s is empty", source)
	}

	var out model.Schema
	var err error
	if isJSON(source, data) {
		err = json.Unmarshal(data, &out)
	} else {
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}

	normalise(&out)
	if err := out.Check(); err != nil {
		return model.Schema{}, fmt.Errorf("schema: %s: %w", source, err)
	}
	return out, nil
}

// LoadFS reads and parses path from fsys.
func LoadFS(fsys fs.FS, path string) (model.Schema, error) {
	if fsys == nil {
		return model.Schema{}, fmt.Errorf("schema: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return model.Schema{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data, path)
}

func isJSON(source string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(source), ".json") {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

// normalise fills in controls the document left implicit.
func normalise(s *model.Schema) {
	for idx := range s.Fields {
		field := &s.Fields[idx]
		if field.Control != "" {
			continue
		}
		switch {
		case field.Kind == model.FieldKindBoolean:
			field.Control = model.ControlCheckbox
		case len(field.Options()) > 0:
			field.Control = model.ControlSelect
		case hasRule(*field, model.RuleEmail):
			field.Control = model.ControlEmail
		default:
			field.Control = model.ControlText
		}
	}
}

func hasRule(field model.Field, kind model.RuleKind) bool {
	for _, rule := range field.Rules {
		if rule.Kind == kind {
			return true
		}
	}
	return false
}
