// Package yamlutil decodes YAML documents strictly.
//
// yaml.v3 only rejects unknown keys when KnownFields is set on a Decoder,
// and that setting is lost inside custom UnmarshalYAML methods, which decode
// through [yaml.Node.Decode]. It has no notion of required keys at all: an
// absent key leaves the zero value behind. [Decode] checks the node tree
// against the target type first, so every mapping is held to the same rules
// at any depth:
//
//   - a key that matches no field is an error
//   - a field whose tag lacks omitempty must be present and not null
//
// Types that implement [yaml.Unmarshaler] are not descended into. They are
// expected to call [Decode] on their own plain representation.
package yamlutil

import (
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kfmtool/pkg/errors"
)

var unmarshalerType = reflect.TypeFor[yaml.Unmarshaler]()

// Decode validates n against out's type and then decodes it into out.
// Validation failures are [errors.ErrCodeInvalidInput].
func Decode(n *yaml.Node, out any) error {
	if err := Check(n, reflect.TypeOf(out)); err != nil {
		return err
	}
	return n.Decode(out)
}

// Check validates n against t without decoding.
func Check(n *yaml.Node, t reflect.Type) error {
	for n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		if n.Kind != yaml.MappingNode {
			return nil // type mismatches are reported by the decoder
		}
		return checkMapping(n, t)
	case reflect.Slice, reflect.Array:
		if n.Kind != yaml.SequenceNode {
			return nil
		}
		for _, item := range n.Content {
			if err := Check(item, t.Elem()); err != nil {
				return err
			}
		}
	case reflect.Map:
		if n.Kind != yaml.MappingNode {
			return nil
		}
		for i := 1; i < len(n.Content); i += 2 {
			if err := Check(n.Content[i], t.Elem()); err != nil {
				return err
			}
		}
	}
	return nil
}

type field struct {
	typ      reflect.Type
	required bool
}

func checkMapping(n *yaml.Node, t reflect.Type) error {
	fields := make(map[string]field)
	var order []string
	collectFields(t, fields, &order)

	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		f, ok := fields[key.Value]
		if !ok {
			return errors.New(errors.ErrCodeInvalidInput,
				"line %d: unknown field %q", key.Line, key.Value)
		}
		if f.required && isNull(value) {
			return errors.New(errors.ErrCodeInvalidInput,
				"line %d: field %q must not be null", key.Line, key.Value)
		}
		seen[key.Value] = true
		if err := Check(value, f.typ); err != nil {
			return err
		}
	}

	for _, name := range order {
		if fields[name].required && !seen[name] {
			return errors.New(errors.ErrCodeInvalidInput,
				"line %d: missing field %q", n.Line, name)
		}
	}
	return nil
}

// collectFields maps yaml keys to fields the way yaml.v3 names them,
// flattening inline structs.
func collectFields(t reflect.Type, fields map[string]field, order *[]string) {
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get("yaml")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if hasOpt(opts, "inline") && sf.Type.Kind() == reflect.Struct {
			collectFields(sf.Type, fields, order)
			continue
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		fields[name] = field{typ: sf.Type, required: !hasOpt(opts, "omitempty")}
		*order = append(*order, name)
	}
}

func hasOpt(opts, want string) bool {
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == want {
			return true
		}
	}
	return false
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
