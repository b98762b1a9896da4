// Package kfm models and encodes keyframe-motion (KFM) animation graphs.
//
// # Overview
//
// A KFM file describes a skeletal animation graph: a model reference,
// default transition settings, a list of animation clips with typed
// transition edges between them, and groups of prioritized playback layers.
// [File] is the in-memory form; [Decode] and [Encode] map it to and from the
// versioned binary layout.
//
// # Binary Layout
//
// The header is byte-oriented and independent of byte order:
//
//	u8      version
//	[35]u8  "Gamebryo KFM File Version 2.2.0.0b\n"
//	u8      1 = little endian, 0 = big endian
//
// Every field after it uses the announced order. Counts are u32, strings are
// a u32 byte length followed by ASCII bytes:
//
//	model           path, root
//	default_trans   sync kind, non-sync kind, sync duration, non-sync duration
//	anims           count, then per clip: id, path, index, count + edges
//	layer_groups    count, then per group: id, name, count + layers
//
// An edge is a target id and a u32 type code (see [Kind]), followed by an
// [Extension] only when [Kind.HasExtension] reports true. Decoder and encoder
// take exactly the same branch: an extension attached to a default-kind edge
// is never written and therefore does not survive a round trip.
//
// # Errors
//
// Malformed input fails with code [errors.ErrCodeFormat]; strings that
// cannot be written fail with [errors.ErrCodeEncoding]. Every failure is
// wrapped with the path of the field being processed:
//
//	read body: read anims[3]: read trans[1]: read type: INVALID_FORMAT: unknown transition type_code 9
//
// [errors.ErrCodeFormat]: github.com/matzehuels/kfmtool/pkg/errors.ErrCodeFormat
// [errors.ErrCodeEncoding]: github.com/matzehuels/kfmtool/pkg/errors.ErrCodeEncoding
package kfm
