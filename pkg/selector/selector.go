// Package selector resolves the id targets of patch instructions.
//
// A [Selector] is either a literal id or a regular expression matched
// against the decimal text of candidate ids. In YAML a literal is a bare
// integer and a pattern is a string wrapped in slashes:
//
//	id: 4        # exactly clip 4
//	id: /.*/     # every id
//	id: /^1\d$/  # 10 through 19
//
// Patterns use Go's RE2 syntax and are not anchored: /1/ selects every id
// whose decimal form contains a 1.
package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kfmtool/pkg/errors"
)

// Selector is a literal id or an id pattern. The zero value selects id 0.
type Selector struct {
	id uint32
	re *regexp.Regexp
}

// ID returns a selector for exactly one id.
func ID(id uint32) Selector {
	return Selector{id: id}
}

// Pattern compiles expr into a pattern selector.
func Pattern(expr string) (Selector, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Selector{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid id pattern %q", expr)
	}
	return Selector{re: re}, nil
}

// MustPattern is like [Pattern] but panics if expr does not compile.
func MustPattern(expr string) Selector {
	s, err := Pattern(expr)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse interprets s the way the YAML form does: "/expr/" is a pattern,
// anything else must be a decimal id.
func Parse(s string) (Selector, error) {
	if expr, ok := patternBody(s); ok {
		return Pattern(expr)
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Selector{}, errors.New(errors.ErrCodeInvalidInput,
			"selector %q is neither an id nor a /pattern/", s)
	}
	return ID(uint32(id)), nil
}

// IsPattern reports whether s is a pattern selector.
func (s Selector) IsPattern() bool { return s.re != nil }

// Literal returns the id of a literal selector. The second result is false
// for patterns.
func (s Selector) Literal() (uint32, bool) {
	if s.re != nil {
		return 0, false
	}
	return s.id, true
}

// String returns the id for literals and /expr/ for patterns.
func (s Selector) String() string {
	if s.re != nil {
		return "/" + s.re.String() + "/"
	}
	return strconv.FormatUint(uint64(s.id), 10)
}

// Match reports whether s selects id.
func (s Selector) Match(id uint32) bool {
	if s.re != nil {
		return s.re.MatchString(strconv.FormatUint(uint64(id), 10))
	}
	return id == s.id
}

// Resolve returns the ids in available that s selects, in the order they
// appear in available. A literal that is not available resolves to nothing;
// callers decide whether that is an error.
func (s Selector) Resolve(available []uint32) []uint32 {
	var out []uint32
	for _, id := range available {
		if s.Match(id) {
			out = append(out, id)
		}
	}
	return out
}

// MarshalYAML encodes literals as integers and patterns as /expr/ strings.
func (s Selector) MarshalYAML() (any, error) {
	if s.re != nil {
		return s.String(), nil
	}
	return s.id, nil
}

// UnmarshalYAML accepts an integer or a string wrapped in slashes.
func (s *Selector) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!str" {
		if expr, ok := patternBody(value.Value); ok {
			sel, err := Pattern(expr)
			if err != nil {
				return fmt.Errorf("line %d: %w", value.Line, err)
			}
			*s = sel
			return nil
		}
	}
	var id uint32
	if err := value.Decode(&id); err != nil {
		return fmt.Errorf("line %d: selector must be an id or a /pattern/: %w", value.Line, err)
	}
	*s = ID(id)
	return nil
}

func patternBody(s string) (string, bool) {
	if len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/") {
		return s[1 : len(s)-1], true
	}
	return "", false
}
