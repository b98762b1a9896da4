// Package header generates the C++ header that accompanies a built KFM file.
//
// The header declares one enum member per clip so game code can refer to
// animation sequences by name instead of by id:
//
//	namespace inventor_broombot_Anim
//	{
//	    enum
//	    {
//	        MECH_GUNBOT_M_IDLE = 0,
//	        MECH_GUNBOT_M_RUN = 1
//	    };
//	}
//
// Member names are the upper-cased file stem of each clip's path, with
// dashes turned into underscores. Names are not deduplicated; two clips with
// the same stem yield a header the C++ compiler will reject.
package header

import (
	"path"
	"strings"
	"text/template"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/kfm"
)

const headerTemplate = `// This file was automatically generated. It contains definitions for all the
// animations stored in the associated KFM file. Include this file in your
// final application to easily refer to animation sequences.

#ifndef {{ .Guard }}
#define {{ .Guard }}

namespace {{ .Namespace }}
{
    enum
    {
{{- range $i, $m := .Members }}
        {{ $m.Name }} = {{ $m.ID }}{{ if not (last $i $.Members) }},{{ end }}
{{- end }}
    };
}

#endif  // #ifndef {{ .Guard }}
`

var tmpl = template.Must(template.New("header").Funcs(template.FuncMap{
	"last": func(i int, members []Member) bool { return i == len(members)-1 },
}).Parse(headerTemplate))

// Member is one enum entry.
type Member struct {
	Name string
	ID   uint32
}

type data struct {
	Guard     string
	Namespace string
	Members   []Member
}

// Make renders the header for the asset named stem (the output file name
// without extension) containing clips, in the order given.
func Make(stem string, clips []kfm.Clip) (string, error) {
	members, err := Members(clips)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	err = tmpl.Execute(&b, data{
		Guard:     strings.ToUpper(stem) + "_ANIM_H__",
		Namespace: stem + "_Anim",
		Members:   members,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render header")
	}
	return b.String(), nil
}

// Members returns the enum entry for each clip. It fails with
// [errors.ErrCodeInvalidPath] when a clip path has no file name.
func Members(clips []kfm.Clip) ([]Member, error) {
	out := make([]Member, 0, len(clips))
	for _, c := range clips {
		name, err := MemberName(c.Path)
		if err != nil {
			return nil, err
		}
		out = append(out, Member{Name: name, ID: c.ID})
	}
	return out, nil
}

// MemberName derives an enum member name from a clip path. Both slash
// styles are accepted.
func MemberName(clipPath string) (string, error) {
	p := strings.ReplaceAll(clipPath, `\`, "/")
	p = strings.ReplaceAll(p, "-", "_")

	base := path.Base(p)
	if p == "" || base == "." || base == ".." || base == "/" {
		return "", errors.New(errors.ErrCodeInvalidPath, "anim path %q has no file stem", clipPath)
	}
	if ext := path.Ext(base); ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return strings.ToUpper(base), nil
}
