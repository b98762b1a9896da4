// Package io reads and writes KFM assets in their binary and text forms.
//
// # Formats
//
// Two on-disk forms are supported, chosen by file extension:
//
//   - .kfm: the binary form, see [kfm.Decode] and [kfm.Encode]
//   - .yaml, .yml: a YAML rendering of [kfm.File], suitable for editing
//
// The YAML form mirrors the binary structure field for field:
//
//	header:
//	  version: 1
//	  is_little_endian: true
//	body:
//	  model:
//	    path: ./../../mesh/newenemies/mech_order_darkling_1.nif
//	    root: Accumulation_Root
//	  default_trans:
//	    sync_type: morph
//	    sync_duration: 0.25
//	    non_sync_type: blend
//	    non_sync_duration: 0.25
//	  anims:
//	    - id: 0
//	      path: ./mech/mech_gunbot_m_idle.kf
//	      index: 0
//	      trans:
//	        - id: 1
//	          type: default_non_sync
//	  layer_groups: []
//
// Converting binary to YAML and back produces the original bytes.
//
// # Import and Export
//
// [Import] and [Export] pick the codec from the path and emit
// [observability.IOHooks] events. [ReadKFM], [WriteKFM], [ReadYAML] and
// [WriteYAML] work on any reader or writer.
//
// Readers buffer their whole input; assets are small and the binary codec
// works on byte slices.
package io
