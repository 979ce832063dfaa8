// Package specfile loads declarative binding specifications from YAML,
// so demos and tools can define mappings in data instead of code.
//
// A file names the model namespace and one binding per property. A
// binding is either a bare method path, an invocation with arguments
// (property-name arguments are substituted from props at bind time), or
// a fixed value. Strings always mean method paths, matching the mapping
// language, so a fixed value must be a non-string scalar:
//
//	namespace: api
//	bindings:
//	  username: getUsername
//	  user:
//	    target: getUser
//	    args: [id]
//	  limit:
//	    value: 30
package specfile

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/wirekit/wire/pkg/domain"
)

// File is a parsed binding specification.
type File struct {
	Namespace string         `yaml:"namespace"`
	Bindings  map[string]any `yaml:"bindings"`
}

type bindingSpec struct {
	Target string `mapstructure:"target"`
	Args   []any  `mapstructure:"args"`
	Value  any    `mapstructure:"value"`
}

// Load reads and parses a specification file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read binding spec: %w", err)
	}
	return Parse(data)
}

// Parse decodes a specification document.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse binding spec: %w", err)
	}
	if len(f.Bindings) == 0 {
		return nil, fmt.Errorf("binding spec declares no bindings")
	}
	return &f, nil
}

// Mapping converts the parsed bindings into a declarative mapping.
func (f *File) Mapping() (domain.Static, error) {
	out := make(domain.Static, len(f.Bindings))

	for prop, raw := range f.Bindings {
		switch v := raw.(type) {
		case string:
			out[prop] = v
		case map[string]any:
			entry, err := decodeBinding(prop, v)
			if err != nil {
				return nil, err
			}
			out[prop] = entry
		default:
			// Bare scalars bind the property to a fixed value.
			out[prop] = raw
		}
	}

	return out, nil
}

func decodeBinding(prop string, raw map[string]any) (any, error) {
	var spec bindingSpec
	var md mapstructure.Metadata

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &spec,
		Metadata: &md,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("binding %q: %w", prop, err)
	}
	if len(md.Unused) > 0 {
		return nil, fmt.Errorf("binding %q: unknown keys %v", prop, md.Unused)
	}

	_, hasValue := raw["value"]
	switch {
	case spec.Target != "" && hasValue:
		return nil, fmt.Errorf("binding %q: target and value are mutually exclusive", prop)
	case hasValue:
		// Strings always mean method paths in the mapping language, so a
		// string here would silently turn into an invocation downstream.
		if _, isString := spec.Value.(string); isString {
			return nil, fmt.Errorf("binding %q: value must not be a string; use target for method paths", prop)
		}
		return spec.Value, nil
	case spec.Target != "":
		return append([]any{spec.Target}, spec.Args...), nil
	default:
		return nil, fmt.Errorf("binding %q: needs a target or a value", prop)
	}
}
