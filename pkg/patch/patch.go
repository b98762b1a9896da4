// Package patch applies declarative structural edits to a KFM graph.
//
// # Patch Files
//
// A patch file is a YAML document listing clip-level instructions under
// "anims". Each instruction is a single-key mapping tagged add, delete or
// update. Updates may carry edge-level instructions under "trans", tagged the
// same way:
//
//	anims:
//	- add:
//	    id: 4
//	    path: ./mech/mech_gunbot_h_ondie.kf
//	    index: 0
//	    trans: []
//	- update:
//	    id: /.*/
//	    trans:
//	    - add:
//	        id: 4
//	        type: default_non_sync
//	- delete:
//	    id: 2
//
// Ids are [selector.Selector] values: a bare integer or a /pattern/.
//
// # Semantics
//
// Instructions run strictly in file order against an [index.Graph]; each one
// sees the effects of the ones before it. Deleting a clip also deletes every
// edge that targets it. Clip updates only overwrite the fields they name,
// while edge updates always overwrite ext, clearing it when the instruction
// has none. See [Apply] for the full contract and [ApplyAtomic] for the
// all-or-nothing variant.
package patch

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/selector"
	"github.com/matzehuels/kfmtool/pkg/yamlutil"
)

// File is an ordered list of clip-level instructions.
type File struct {
	Clips []ClipOp `yaml:"anims"`
}

// ClipOp is a clip-level instruction. Exactly one field is set.
type ClipOp struct {
	Add    *kfm.Clip   `yaml:"add,omitempty"`
	Delete *DeleteClip `yaml:"delete,omitempty"`
	Update *UpdateClip `yaml:"update,omitempty"`
}

// DeleteClip removes every clip matching ID, along with edges to them.
type DeleteClip struct {
	ID selector.Selector `yaml:"id"`
}

// UpdateClip edits every clip matching ID. Nil fields are left untouched.
type UpdateClip struct {
	ID    selector.Selector `yaml:"id"`
	Path  *string           `yaml:"path,omitempty"`
	Index *uint32           `yaml:"index,omitempty"`
	Edges []EdgeOp          `yaml:"trans,omitempty"`
}

// EdgeOp is an edge-level instruction scoped to one clip. Exactly one field is set.
type EdgeOp struct {
	Add    *AddEdge    `yaml:"add,omitempty"`
	Delete *DeleteEdge `yaml:"delete,omitempty"`
	Update *UpdateEdge `yaml:"update,omitempty"`
}

// AddEdge adds an edge from the owning clip to every clip matching ID.
type AddEdge struct {
	ID   selector.Selector `yaml:"id"`
	Kind kfm.Kind          `yaml:"type"`
	Ext  *kfm.Extension    `yaml:"ext,omitempty"`
}

// DeleteEdge removes the owning clip's edges to targets matching ID.
type DeleteEdge struct {
	ID selector.Selector `yaml:"id"`
}

// UpdateEdge edits the owning clip's edges to targets matching ID.
// Kind is only overwritten when set; Ext is always overwritten.
type UpdateEdge struct {
	ID   selector.Selector `yaml:"id"`
	Kind *kfm.Kind         `yaml:"type,omitempty"`
	Ext  *kfm.Extension    `yaml:"ext,omitempty"`
}

// Add returns an instruction that inserts c.
func Add(c kfm.Clip) ClipOp { return ClipOp{Add: &c} }

// Delete returns an instruction that deletes the clips matching sel.
func Delete(sel selector.Selector) ClipOp { return ClipOp{Delete: &DeleteClip{ID: sel}} }

// Update returns an instruction that applies u.
func Update(u UpdateClip) ClipOp { return ClipOp{Update: &u} }

// AddTo returns an edge instruction that adds edges to the clips matching sel.
func AddTo(sel selector.Selector, kind kfm.Kind, ext *kfm.Extension) EdgeOp {
	return EdgeOp{Add: &AddEdge{ID: sel, Kind: kind, Ext: ext}}
}

// DeleteTo returns an edge instruction that removes edges to targets matching sel.
func DeleteTo(sel selector.Selector) EdgeOp { return EdgeOp{Delete: &DeleteEdge{ID: sel}} }

// UpdateTo returns an edge instruction that applies u.
func UpdateTo(u UpdateEdge) EdgeOp { return EdgeOp{Update: &u} }

// Op returns the instruction's tag: "add", "delete" or "update".
func (op ClipOp) Op() string { return opName(op.Add != nil, op.Delete != nil, op.Update != nil) }

// Op returns the instruction's tag: "add", "delete" or "update".
func (op EdgeOp) Op() string { return opName(op.Add != nil, op.Delete != nil, op.Update != nil) }

// UnmarshalYAML decodes a single-key add/delete/update mapping. Unknown
// keys and missing required keys in the instruction body are errors.
func (op *ClipOp) UnmarshalYAML(value *yaml.Node) error {
	type plain ClipOp
	var p plain
	if err := yamlutil.Decode(value, &p); err != nil {
		return err
	}
	if err := checkTagged(value, p.Add != nil, p.Delete != nil, p.Update != nil); err != nil {
		return err
	}
	*op = ClipOp(p)
	return nil
}

// UnmarshalYAML decodes a single-key add/delete/update mapping. Unknown
// keys and missing required keys in the instruction body are errors.
func (op *EdgeOp) UnmarshalYAML(value *yaml.Node) error {
	type plain EdgeOp
	var p plain
	if err := yamlutil.Decode(value, &p); err != nil {
		return err
	}
	if err := checkTagged(value, p.Add != nil, p.Delete != nil, p.Update != nil); err != nil {
		return err
	}
	*op = EdgeOp(p)
	return nil
}

func checkTagged(value *yaml.Node, set ...bool) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return errors.New(errors.ErrCodeInvalidInput,
			"line %d: instruction must have exactly one of add, delete, update", value.Line)
	}
	n := 0
	for _, s := range set {
		if s {
			n++
		}
	}
	if n != 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"line %d: unknown instruction %q", value.Line, value.Content[0].Value)
	}
	return nil
}

func opName(add, del, update bool) string {
	switch {
	case add:
		return "add"
	case del:
		return "delete"
	case update:
		return "update"
	}
	return ""
}

// Read parses a patch file from r. An empty document is an empty patch.
// Every instruction body must carry an id, and unknown keys are rejected at
// any depth, so a misspelled key never falls back to a zero value.
func Read(r io.Reader) (File, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return File{}, nil
		}
		return File{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode patch")
	}
	var f File
	if err := yamlutil.Decode(&doc, &f); err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode patch")
	}
	return f, nil
}

// Load reads the patch file at path.
func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()
	return Read(fh)
}

// Write encodes f as YAML to w.
func Write(f File, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}
