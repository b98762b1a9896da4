package patch

import (
	"fmt"
	"time"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/index"
	"github.com/matzehuels/kfmtool/pkg/observability"
)

// Apply runs every instruction of f against g, in order.
//
// Instructions that select nothing are no-ops. The first failing instruction
// aborts the patch with an error naming its position ("anims[i]: trans[j]:
// ..."); instructions before it have already been applied and are not rolled
// back. Use [ApplyAtomic] to leave g untouched on failure.
//
// Failures are coded:
//   - [errors.ErrCodeConflict]: adding a clip or edge that already exists
//   - [errors.ErrCodeNotFound]: editing an edge that disappeared mid-instruction
//   - [errors.ErrCodeDuplicateID]: an added clip lists the same target twice
//   - [errors.ErrCodeInvalidInput]: an instruction with no tag
func Apply(g *index.Graph, f File) (err error) {
	start := time.Now()
	observability.Patch().OnPatchStart(len(f.Clips))
	defer func() { observability.Patch().OnPatchComplete(g.Len(), g.EdgeCount(), time.Since(start), err) }()

	for i, op := range f.Clips {
		if err := applyClipOp(g, op); err != nil {
			return fmt.Errorf("anims[%d]: %w", i, err)
		}
	}
	return nil
}

// ApplyAtomic applies f to a deep copy of g and returns the copy. On error g
// is unchanged and the partially patched copy is discarded.
func ApplyAtomic(g *index.Graph, f File) (*index.Graph, error) {
	out := g.Clone()
	if err := Apply(out, f); err != nil {
		return nil, err
	}
	return out, nil
}

func applyClipOp(g *index.Graph, op ClipOp) error {
	switch {
	case op.Add != nil:
		observability.Patch().OnInstruction("anim", "add", 1)
		return g.AddClip(op.Add.Clone())

	case op.Delete != nil:
		ids := op.Delete.ID.Resolve(g.ClipIDs())
		observability.Patch().OnInstruction("anim", "delete", len(ids))
		g.RemoveClips(ids)
		return nil

	case op.Update != nil:
		return updateClip(g, op.Update)
	}
	return errors.New(errors.ErrCodeInvalidInput, "empty instruction")
}

func updateClip(g *index.Graph, u *UpdateClip) error {
	ids := u.ID.Resolve(g.ClipIDs())
	observability.Patch().OnInstruction("anim", "update", len(ids))

	for _, id := range ids {
		c, ok := g.Clip(id)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "anim %d not found", id)
		}
		if u.Path != nil {
			c.Path = *u.Path
		}
		if u.Index != nil {
			c.Index = *u.Index
		}
		for j, op := range u.Edges {
			if err := applyEdgeOp(g, id, c, op); err != nil {
				return fmt.Errorf("anim %d: trans[%d]: %w", id, j, err)
			}
		}
	}
	return nil
}

func applyEdgeOp(g *index.Graph, parent uint32, c *index.Clip, op EdgeOp) error {
	switch {
	case op.Add != nil:
		return addEdges(g, parent, c, op.Add)
	case op.Delete != nil:
		return deleteEdges(parent, c, op.Delete)
	case op.Update != nil:
		return updateEdges(parent, c, op.Update)
	}
	return errors.New(errors.ErrCodeInvalidInput, "empty instruction")
}

// addEdges targets every clip in the graph, not only the parent's current
// edges. A clip never gains an edge to itself.
func addEdges(g *index.Graph, parent uint32, c *index.Clip, add *AddEdge) error {
	var targets []uint32
	for _, id := range add.ID.Resolve(g.ClipIDs()) {
		if id != parent {
			targets = append(targets, id)
		}
	}
	observability.Patch().OnInstruction("tran", "add", len(targets))

	for _, target := range targets {
		if _, ok := c.Edges[target]; ok {
			return errors.New(errors.ErrCodeConflict, "anim %d already has tran to %d", parent, target)
		}
		c.Edges[target] = &index.Edge{Kind: add.Kind, Ext: add.Ext.Clone()}
	}
	return nil
}

func deleteEdges(parent uint32, c *index.Clip, del *DeleteEdge) error {
	targets := del.ID.Resolve(c.EdgeTargets())
	observability.Patch().OnInstruction("tran", "delete", len(targets))

	for _, target := range targets {
		if _, ok := c.Edges[target]; !ok {
			return errors.New(errors.ErrCodeNotFound, "anim %d has no tran to %d", parent, target)
		}
		delete(c.Edges, target)
	}
	return nil
}

// updateEdges overwrites Kind only when the instruction names one, but always
// overwrites Ext: an update without ext clears the existing extension.
func updateEdges(parent uint32, c *index.Clip, u *UpdateEdge) error {
	targets := u.ID.Resolve(c.EdgeTargets())
	observability.Patch().OnInstruction("tran", "update", len(targets))

	for _, target := range targets {
		e, ok := c.Edges[target]
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "anim %d has no tran to %d", parent, target)
		}
		if u.Kind != nil {
			e.Kind = *u.Kind
		}
		e.Ext = u.Ext.Clone()
	}
	return nil
}
