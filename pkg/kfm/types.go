package kfm

import "slices"

// File is a complete KFM asset: the fixed header plus the graph body.
type File struct {
	Header Header `yaml:"header"`
	Body   Graph  `yaml:"body"`
}

// Graph is the sequential, file-ordered form of an animation graph.
// Clip ids are expected to be unique; the codec does not check this, the
// indexed view does.
type Graph struct {
	Model              Model              `yaml:"model"`
	DefaultTransitions DefaultTransitions `yaml:"default_trans"`
	Clips              []Clip             `yaml:"anims"`
	LayerGroups        []LayerGroup       `yaml:"layer_groups"`
}

// Model references the skinned model the clips animate.
type Model struct {
	Path string `yaml:"path"`
	Root string `yaml:"root"`
}

// DefaultTransitions holds the transition used when no explicit edge exists.
// On the wire both kinds precede both durations.
type DefaultTransitions struct {
	SyncKind        Kind    `yaml:"sync_type"`
	SyncDuration    float32 `yaml:"sync_duration"`
	NonSyncKind     Kind    `yaml:"non_sync_type"`
	NonSyncDuration float32 `yaml:"non_sync_duration"`
}

// Clip is a single animation sequence node.
type Clip struct {
	ID    uint32 `yaml:"id"`
	Path  string `yaml:"path"`
	Index uint32 `yaml:"index"`
	Edges []Edge `yaml:"trans"`
}

// Clone returns a deep copy of c.
func (c Clip) Clone() Clip {
	out := c
	if c.Edges != nil {
		out.Edges = make([]Edge, len(c.Edges))
		for i, e := range c.Edges {
			out.Edges[i] = e.Clone()
		}
	}
	return out
}

// Edge is a directed transition from the owning clip to Target.
// Ext is present if and only if Kind.HasExtension.
type Edge struct {
	Target uint32     `yaml:"id"`
	Kind   Kind       `yaml:"type"`
	Ext    *Extension `yaml:"ext,omitempty"`
}

// Clone returns a deep copy of e.
func (e Edge) Clone() Edge {
	e.Ext = e.Ext.Clone()
	return e
}

// Extension carries blend timing and keyframe remapping for transitions
// that are not one of the default kinds.
type Extension struct {
	Duration          float32            `yaml:"duration"`
	IntermediateAnims []IntermediateAnim `yaml:"intermediate_anims"`
	ChainAnims        []ChainAnim        `yaml:"chain_anims"`
}

// Clone returns a deep copy of x. Cloning a nil extension returns nil.
func (x *Extension) Clone() *Extension {
	if x == nil {
		return nil
	}
	out := *x
	out.IntermediateAnims = slices.Clone(x.IntermediateAnims)
	out.ChainAnims = slices.Clone(x.ChainAnims)
	return &out
}

// IntermediateAnim maps a key in the source clip to a key in the target clip
// for cross-fade remapping.
type IntermediateAnim struct {
	StartKey  string `yaml:"start_key"`
	TargetKey string `yaml:"target_key"`
}

// ChainAnim is one step of a chained transition.
type ChainAnim struct {
	ID       uint32  `yaml:"id"`
	Duration float32 `yaml:"duration"`
}

// LayerGroup is a named set of playback layers.
type LayerGroup struct {
	ID     uint32  `yaml:"id"`
	Name   string  `yaml:"name"`
	Layers []Layer `yaml:"layers"`
}

// Layer describes how clips on one layer blend with the others.
type Layer struct {
	ID          uint32  `yaml:"id"`
	Priority    int32   `yaml:"priority"`
	Weight      float32 `yaml:"weight"`
	EaseInTime  float32 `yaml:"ease_in_time"`
	EaseOutTime float32 `yaml:"ease_out_time"`
	SyncID      uint32  `yaml:"sync_id"`
}
