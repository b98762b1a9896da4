// Package index provides the id-keyed view of a KFM graph used while editing.
//
// A [kfm.Graph] keeps clips and edges in file order, which is what the codec
// needs. Edits want the opposite: constant-time lookup, insertion and removal
// by id. [Build] re-keys clips by id and each clip's edges by target id;
// [Graph.Flatten] turns the view back into a sequential graph. Both are pure
// conversions and neither shares memory with its input.
//
// Flattening emits clips and edges in ascending id order. The original file
// order is not preserved by an edit round trip.
package index

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/kfm"
)

// Graph is the indexed form of a [kfm.Graph].
// It is not safe for concurrent use.
type Graph struct {
	Model              kfm.Model
	DefaultTransitions kfm.DefaultTransitions
	Clips              map[uint32]*Clip
	LayerGroups        []kfm.LayerGroup
}

// Clip is a clip without its id; the id is its key in [Graph.Clips].
type Clip struct {
	Path  string
	Index uint32
	Edges map[uint32]*Edge
}

// Edge is a transition without its target; the target is its key in [Clip.Edges].
type Edge struct {
	Kind kfm.Kind
	Ext  *kfm.Extension
}

// Build re-keys g. It fails with [errors.ErrCodeDuplicateID] when two clips
// share an id or when one clip has two edges to the same target.
func Build(g kfm.Graph) (*Graph, error) {
	out := &Graph{
		Model:              g.Model,
		DefaultTransitions: g.DefaultTransitions,
		Clips:              make(map[uint32]*Clip, len(g.Clips)),
		LayerGroups:        cloneLayerGroups(g.LayerGroups),
	}
	for i, c := range g.Clips {
		if _, ok := out.Clips[c.ID]; ok {
			return nil, fmt.Errorf("anims[%d]: %w", i,
				errors.New(errors.ErrCodeDuplicateID, "duplicate anim id %d", c.ID))
		}
		ic, err := NewClip(c)
		if err != nil {
			return nil, fmt.Errorf("anims[%d]: %w", i, err)
		}
		out.Clips[c.ID] = ic
	}
	return out, nil
}

// NewClip converts a sequential clip into its indexed form.
// It fails with [errors.ErrCodeDuplicateID] on a repeated edge target.
func NewClip(c kfm.Clip) (*Clip, error) {
	out := &Clip{
		Path:  c.Path,
		Index: c.Index,
		Edges: make(map[uint32]*Edge, len(c.Edges)),
	}
	for _, e := range c.Edges {
		if _, ok := out.Edges[e.Target]; ok {
			return nil, errors.New(errors.ErrCodeDuplicateID,
				"anim %d has duplicate tran to %d", c.ID, e.Target)
		}
		out.Edges[e.Target] = &Edge{Kind: e.Kind, Ext: e.Ext.Clone()}
	}
	return out, nil
}

// Flatten converts the view back into a sequential graph, with clips and
// edges in ascending id order.
func (g *Graph) Flatten() kfm.Graph {
	out := kfm.Graph{
		Model:              g.Model,
		DefaultTransitions: g.DefaultTransitions,
		Clips:              make([]kfm.Clip, 0, len(g.Clips)),
		LayerGroups:        cloneLayerGroups(g.LayerGroups),
	}
	for _, id := range g.ClipIDs() {
		out.Clips = append(out.Clips, g.Clips[id].Flatten(id))
	}
	return out
}

// Flatten converts c back into a sequential clip with the given id.
func (c *Clip) Flatten(id uint32) kfm.Clip {
	out := kfm.Clip{
		ID:    id,
		Path:  c.Path,
		Index: c.Index,
		Edges: make([]kfm.Edge, 0, len(c.Edges)),
	}
	for _, target := range c.EdgeTargets() {
		e := c.Edges[target]
		out.Edges = append(out.Edges, kfm.Edge{Target: target, Kind: e.Kind, Ext: e.Ext.Clone()})
	}
	return out
}

// Len returns the number of clips.
func (g *Graph) Len() int { return len(g.Clips) }

// ClipIDs returns all clip ids in ascending order.
func (g *Graph) ClipIDs() []uint32 {
	return slices.Sorted(maps.Keys(g.Clips))
}

// Clip returns the clip with the given id.
func (g *Graph) Clip(id uint32) (*Clip, bool) {
	c, ok := g.Clips[id]
	return c, ok
}

// AddClip inserts c at its declared id. Existing clips are never
// overwritten: an occupied id fails with [errors.ErrCodeConflict].
func (g *Graph) AddClip(c kfm.Clip) error {
	if _, ok := g.Clips[c.ID]; ok {
		return errors.New(errors.ErrCodeConflict, "anim %d already exists", c.ID)
	}
	ic, err := NewClip(c)
	if err != nil {
		return err
	}
	g.Clips[c.ID] = ic
	return nil
}

// RemoveClips deletes the given clips and every edge from a remaining clip
// to any of them. Ids that are not present are ignored.
func (g *Graph) RemoveClips(ids []uint32) {
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		delete(g.Clips, id)
	}
	for _, c := range g.Clips {
		for _, id := range ids {
			delete(c.Edges, id)
		}
	}
}

// EdgeCount returns the total number of edges across all clips.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, c := range g.Clips {
		n += len(c.Edges)
	}
	return n
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Model:              g.Model,
		DefaultTransitions: g.DefaultTransitions,
		Clips:              make(map[uint32]*Clip, len(g.Clips)),
		LayerGroups:        cloneLayerGroups(g.LayerGroups),
	}
	for id, c := range g.Clips {
		out.Clips[id] = c.Clone()
	}
	return out
}

// EdgeTargets returns the targets of c's edges in ascending order.
func (c *Clip) EdgeTargets() []uint32 {
	return slices.Sorted(maps.Keys(c.Edges))
}

// Clone returns a deep copy of c.
func (c *Clip) Clone() *Clip {
	out := &Clip{
		Path:  c.Path,
		Index: c.Index,
		Edges: make(map[uint32]*Edge, len(c.Edges)),
	}
	for target, e := range c.Edges {
		out.Edges[target] = &Edge{Kind: e.Kind, Ext: e.Ext.Clone()}
	}
	return out
}

func cloneLayerGroups(groups []kfm.LayerGroup) []kfm.LayerGroup {
	if groups == nil {
		return nil
	}
	out := make([]kfm.LayerGroup, len(groups))
	for i, lg := range groups {
		out[i] = lg
		out[i].Layers = slices.Clone(lg.Layers)
	}
	return out
}
