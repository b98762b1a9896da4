package kfm

import (
	"encoding/binary"
	"fmt"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/wire"
)

// Minimum encoded sizes, used to reject element counts that cannot fit in
// the remaining input.
const (
	minClipSize       = 4 * wire.SizeU32 // id, path length, index, edge count
	minEdgeSize       = 2 * wire.SizeU32 // target, type code
	minIntermediate   = 2 * wire.SizeU32 // two empty strings
	minChainSize      = wire.SizeU32 + wire.SizeF32
	minLayerGroupSize = 3 * wire.SizeU32 // id, name length, layer count
	layerSize         = 6 * wire.SizeU32
)

// Decode parses a KFM file. The body is read in the byte order the header
// announces. Bytes after the last layer group are ignored, since shipped
// assets sometimes carry padding; use [DecodePrefix] to detect them.
func Decode(data []byte) (*File, error) {
	f, _, err := DecodePrefix(data)
	return f, err
}

// DecodePrefix is like [Decode] but also returns the number of bytes the
// file occupies at the start of data.
func DecodePrefix(data []byte) (*File, int, error) {
	hr := wire.NewReader(data, binary.LittleEndian)
	h, err := DecodeHeader(hr)
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}

	r := wire.NewReader(data[hr.Offset():], h.ByteOrder())
	body, err := DecodeGraph(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return &File{Header: h, Body: *body}, hr.Offset() + r.Offset(), nil
}

// Encode serializes f, writing the body in the order f.Header announces.
func Encode(f *File) ([]byte, error) {
	w := wire.NewWriter(f.Header.ByteOrder())
	EncodeHeader(w, f.Header)
	if err := EncodeGraph(w, &f.Body); err != nil {
		return nil, fmt.Errorf("write body: %w", err)
	}
	return w.Bytes(), nil
}

// DecodeGraph reads a graph body from r.
func DecodeGraph(r *wire.Reader) (*Graph, error) {
	var g Graph
	var err error

	if g.Model.Path, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("read model.path: %w", err)
	}
	if g.Model.Root, err = r.ReadString(); err != nil {
		return nil, fmt.Errorf("read model.root: %w", err)
	}
	if g.DefaultTransitions, err = decodeDefaultTransitions(r); err != nil {
		return nil, fmt.Errorf("read default_trans: %w", err)
	}

	n, err := r.ReadCount(minClipSize)
	if err != nil {
		return nil, fmt.Errorf("read num_anims: %w", err)
	}
	g.Clips = make([]Clip, 0, n)
	for i := range n {
		c, err := decodeClip(r)
		if err != nil {
			return nil, fmt.Errorf("read anims[%d]: %w", i, err)
		}
		g.Clips = append(g.Clips, c)
	}

	n, err = r.ReadCount(minLayerGroupSize)
	if err != nil {
		return nil, fmt.Errorf("read num_layer_groups: %w", err)
	}
	g.LayerGroups = make([]LayerGroup, 0, n)
	for i := range n {
		lg, err := decodeLayerGroup(r)
		if err != nil {
			return nil, fmt.Errorf("read layer_groups[%d]: %w", i, err)
		}
		g.LayerGroups = append(g.LayerGroups, lg)
	}

	return &g, nil
}

// EncodeGraph appends a graph body to w.
func EncodeGraph(w *wire.Writer, g *Graph) error {
	if err := w.WriteString(g.Model.Path); err != nil {
		return fmt.Errorf("write model.path: %w", err)
	}
	if err := w.WriteString(g.Model.Root); err != nil {
		return fmt.Errorf("write model.root: %w", err)
	}
	if err := encodeDefaultTransitions(w, g.DefaultTransitions); err != nil {
		return fmt.Errorf("write default_trans: %w", err)
	}

	if err := w.WriteCount(len(g.Clips)); err != nil {
		return fmt.Errorf("write num_anims: %w", err)
	}
	for i := range g.Clips {
		if err := encodeClip(w, &g.Clips[i]); err != nil {
			return fmt.Errorf("write anims[%d]: %w", i, err)
		}
	}

	if err := w.WriteCount(len(g.LayerGroups)); err != nil {
		return fmt.Errorf("write num_layer_groups: %w", err)
	}
	for i := range g.LayerGroups {
		if err := encodeLayerGroup(w, &g.LayerGroups[i]); err != nil {
			return fmt.Errorf("write layer_groups[%d]: %w", i, err)
		}
	}
	return nil
}

// decodeDefaultTransitions reads both kinds before both durations.
func decodeDefaultTransitions(r *wire.Reader) (DefaultTransitions, error) {
	var d DefaultTransitions
	var err error

	if d.SyncKind, err = decodeKind(r); err != nil {
		return d, fmt.Errorf("read sync_type: %w", err)
	}
	if d.NonSyncKind, err = decodeKind(r); err != nil {
		return d, fmt.Errorf("read non_sync_type: %w", err)
	}
	if d.SyncDuration, err = r.ReadF32(); err != nil {
		return d, fmt.Errorf("read sync_duration: %w", err)
	}
	if d.NonSyncDuration, err = r.ReadF32(); err != nil {
		return d, fmt.Errorf("read non_sync_duration: %w", err)
	}
	return d, nil
}

func encodeDefaultTransitions(w *wire.Writer, d DefaultTransitions) error {
	if err := encodeKind(w, d.SyncKind); err != nil {
		return fmt.Errorf("write sync_type: %w", err)
	}
	if err := encodeKind(w, d.NonSyncKind); err != nil {
		return fmt.Errorf("write non_sync_type: %w", err)
	}
	w.WriteF32(d.SyncDuration)
	w.WriteF32(d.NonSyncDuration)
	return nil
}

func decodeKind(r *wire.Reader) (Kind, error) {
	code, err := r.ReadU32()
	if err != nil {
		return 0, fmt.Errorf("read type_code: %w", err)
	}
	return kindFromCode(code)
}

func encodeKind(w *wire.Writer, k Kind) error {
	if !k.Valid() {
		return errors.New(errors.ErrCodeEncoding, "unknown transition type_code %d", uint32(k))
	}
	w.WriteU32(uint32(k))
	return nil
}

func decodeClip(r *wire.Reader) (Clip, error) {
	var c Clip
	var err error

	if c.ID, err = r.ReadU32(); err != nil {
		return c, fmt.Errorf("read id: %w", err)
	}
	if c.Path, err = r.ReadString(); err != nil {
		return c, fmt.Errorf("read path: %w", err)
	}
	if c.Index, err = r.ReadU32(); err != nil {
		return c, fmt.Errorf("read index: %w", err)
	}

	n, err := r.ReadCount(minEdgeSize)
	if err != nil {
		return c, fmt.Errorf("read num_trans: %w", err)
	}
	c.Edges = make([]Edge, 0, n)
	for i := range n {
		e, err := decodeEdge(r)
		if err != nil {
			return c, fmt.Errorf("read trans[%d]: %w", i, err)
		}
		c.Edges = append(c.Edges, e)
	}
	return c, nil
}

func encodeClip(w *wire.Writer, c *Clip) error {
	w.WriteU32(c.ID)
	if err := w.WriteString(c.Path); err != nil {
		return fmt.Errorf("write path: %w", err)
	}
	w.WriteU32(c.Index)

	if err := w.WriteCount(len(c.Edges)); err != nil {
		return fmt.Errorf("write num_trans: %w", err)
	}
	for i := range c.Edges {
		if err := encodeEdge(w, &c.Edges[i]); err != nil {
			return fmt.Errorf("write trans[%d]: %w", i, err)
		}
	}
	return nil
}

// decodeEdge branches on the kind it just read: only non-default kinds are
// followed by an extension.
func decodeEdge(r *wire.Reader) (Edge, error) {
	var e Edge
	var err error

	if e.Target, err = r.ReadU32(); err != nil {
		return e, fmt.Errorf("read id: %w", err)
	}
	if e.Kind, err = decodeKind(r); err != nil {
		return e, fmt.Errorf("read type: %w", err)
	}
	if e.Kind.HasExtension() {
		ext, err := decodeExtension(r)
		if err != nil {
			return e, fmt.Errorf("read ext: %w", err)
		}
		e.Ext = ext
	}
	return e, nil
}

// encodeEdge mirrors decodeEdge. A default-kind edge never writes its
// extension; a non-default edge without one gets a zero extension so the
// output stays decodable.
func encodeEdge(w *wire.Writer, e *Edge) error {
	w.WriteU32(e.Target)
	if err := encodeKind(w, e.Kind); err != nil {
		return fmt.Errorf("write type: %w", err)
	}
	if !e.Kind.HasExtension() {
		return nil
	}
	ext := e.Ext
	if ext == nil {
		ext = &Extension{}
	}
	if err := encodeExtension(w, ext); err != nil {
		return fmt.Errorf("write ext: %w", err)
	}
	return nil
}

func decodeExtension(r *wire.Reader) (*Extension, error) {
	var x Extension
	var err error

	if x.Duration, err = r.ReadF32(); err != nil {
		return nil, fmt.Errorf("read duration: %w", err)
	}

	n, err := r.ReadCount(minIntermediate)
	if err != nil {
		return nil, fmt.Errorf("read num_intermediate_anims: %w", err)
	}
	x.IntermediateAnims = make([]IntermediateAnim, 0, n)
	for i := range n {
		var ia IntermediateAnim
		if ia.StartKey, err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("read intermediate_anims[%d]: read start_key: %w", i, err)
		}
		if ia.TargetKey, err = r.ReadString(); err != nil {
			return nil, fmt.Errorf("read intermediate_anims[%d]: read target_key: %w", i, err)
		}
		x.IntermediateAnims = append(x.IntermediateAnims, ia)
	}

	n, err = r.ReadCount(minChainSize)
	if err != nil {
		return nil, fmt.Errorf("read num_chain_anims: %w", err)
	}
	x.ChainAnims = make([]ChainAnim, 0, n)
	for i := range n {
		var ca ChainAnim
		if ca.ID, err = r.ReadU32(); err != nil {
			return nil, fmt.Errorf("read chain_anims[%d]: read id: %w", i, err)
		}
		if ca.Duration, err = r.ReadF32(); err != nil {
			return nil, fmt.Errorf("read chain_anims[%d]: read duration: %w", i, err)
		}
		x.ChainAnims = append(x.ChainAnims, ca)
	}
	return &x, nil
}

func encodeExtension(w *wire.Writer, x *Extension) error {
	w.WriteF32(x.Duration)

	if err := w.WriteCount(len(x.IntermediateAnims)); err != nil {
		return fmt.Errorf("write num_intermediate_anims: %w", err)
	}
	for i, ia := range x.IntermediateAnims {
		if err := w.WriteString(ia.StartKey); err != nil {
			return fmt.Errorf("write intermediate_anims[%d]: write start_key: %w", i, err)
		}
		if err := w.WriteString(ia.TargetKey); err != nil {
			return fmt.Errorf("write intermediate_anims[%d]: write target_key: %w", i, err)
		}
	}

	if err := w.WriteCount(len(x.ChainAnims)); err != nil {
		return fmt.Errorf("write num_chain_anims: %w", err)
	}
	for _, ca := range x.ChainAnims {
		w.WriteU32(ca.ID)
		w.WriteF32(ca.Duration)
	}
	return nil
}

func decodeLayerGroup(r *wire.Reader) (LayerGroup, error) {
	var lg LayerGroup
	var err error

	if lg.ID, err = r.ReadU32(); err != nil {
		return lg, fmt.Errorf("read id: %w", err)
	}
	if lg.Name, err = r.ReadString(); err != nil {
		return lg, fmt.Errorf("read name: %w", err)
	}

	n, err := r.ReadCount(layerSize)
	if err != nil {
		return lg, fmt.Errorf("read num_layers: %w", err)
	}
	lg.Layers = make([]Layer, 0, n)
	for i := range n {
		l, err := decodeLayer(r)
		if err != nil {
			return lg, fmt.Errorf("read layers[%d]: %w", i, err)
		}
		lg.Layers = append(lg.Layers, l)
	}
	return lg, nil
}

func encodeLayerGroup(w *wire.Writer, lg *LayerGroup) error {
	w.WriteU32(lg.ID)
	if err := w.WriteString(lg.Name); err != nil {
		return fmt.Errorf("write name: %w", err)
	}
	if err := w.WriteCount(len(lg.Layers)); err != nil {
		return fmt.Errorf("write num_layers: %w", err)
	}
	for _, l := range lg.Layers {
		w.WriteU32(l.ID)
		w.WriteI32(l.Priority)
		w.WriteF32(l.Weight)
		w.WriteF32(l.EaseInTime)
		w.WriteF32(l.EaseOutTime)
		w.WriteU32(l.SyncID)
	}
	return nil
}

// decodeLayer reads a fixed-size layer record. The caller has already
// checked that the whole record fits.
func decodeLayer(r *wire.Reader) (Layer, error) {
	var l Layer
	var err error

	if l.ID, err = r.ReadU32(); err != nil {
		return l, fmt.Errorf("read id: %w", err)
	}
	if l.Priority, err = r.ReadI32(); err != nil {
		return l, fmt.Errorf("read priority: %w", err)
	}
	if l.Weight, err = r.ReadF32(); err != nil {
		return l, fmt.Errorf("read weight: %w", err)
	}
	if l.EaseInTime, err = r.ReadF32(); err != nil {
		return l, fmt.Errorf("read ease_in_time: %w", err)
	}
	if l.EaseOutTime, err = r.ReadF32(); err != nil {
		return l, fmt.Errorf("read ease_out_time: %w", err)
	}
	if l.SyncID, err = r.ReadU32(); err != nil {
		return l, fmt.Errorf("read sync_id: %w", err)
	}
	return l, nil
}
