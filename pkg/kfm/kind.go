package kfm

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kfmtool/pkg/errors"
)

// Kind is the transition behavior of an edge. Its numeric value is the
// on-disk type code.
type Kind uint32

const (
	KindBlend Kind = iota
	KindMorph
	KindCrossfade
	KindChainAnimation
	KindDefaultSync
	KindDefaultNonSync
)

var kindNames = [...]string{
	KindBlend:          "blend",
	KindMorph:          "morph",
	KindCrossfade:      "crossfade",
	KindChainAnimation: "chain_animation",
	KindDefaultSync:    "default_sync",
	KindDefaultNonSync: "default_non_sync",
}

// Valid reports whether k is one of the known type codes.
func (k Kind) Valid() bool { return int(k) < len(kindNames) }

// HasExtension reports whether edges of this kind carry an [Extension].
// The default kinds never do; every other kind always does.
func (k Kind) HasExtension() bool {
	return k != KindDefaultSync && k != KindDefaultNonSync
}

// String returns the snake_case name used in the text form.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint32(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind with the given snake_case name.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown transition type %q", s)
}

// kindFromCode maps a wire type code to a Kind.
func kindFromCode(code uint32) (Kind, error) {
	k := Kind(code)
	if !k.Valid() {
		return 0, errors.New(errors.ErrCodeFormat, "unknown transition type_code %d", code)
	}
	return k, nil
}

// MarshalYAML encodes the kind by name.
func (k Kind) MarshalYAML() (any, error) {
	if !k.Valid() {
		return nil, errors.New(errors.ErrCodeEncoding, "unknown transition type_code %d", uint32(k))
	}
	return k.String(), nil
}

// UnmarshalYAML decodes a kind from its name.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*k = parsed
	return nil
}
