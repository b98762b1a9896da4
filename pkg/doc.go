// Package pkg provides the libraries behind kfmtool, a toolkit for Gamebryo
// KFM animation graph files.
//
// # Overview
//
// A KFM file describes which animation clips a model has and how the engine
// blends from one clip to another. The pkg directory is organized into three
// layers:
//
//  1. Format: [wire] (byte-level primitives) and [kfm] (the file codec)
//  2. Editing: [index] (id-keyed view), [selector] (id patterns) and
//     [patch] (declarative edits)
//  3. Output: [io] (binary and YAML files), [header] (C++ enum header) and
//     [render/nodelink] (diagrams)
//
// [errors], [observability] and [yamlutil] are shared by all of them.
//
// # Architecture
//
// The typical data flow when patching an asset:
//
//	.kfm / .yaml
//	     ↓
//	[io] package (Import)
//	     ↓
//	[index] package (Build)
//	     ↓
//	[patch] package (Apply)
//	     ↓
//	[index] package (Flatten)
//	     ↓
//	[io] package (Export)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/kfmtool/pkg/index"
//	    kfmio "github.com/matzehuels/kfmtool/pkg/io"
//	    "github.com/matzehuels/kfmtool/pkg/kfm"
//	    "github.com/matzehuels/kfmtool/pkg/patch"
//	)
//
//	f, _ := kfmio.Import(ctx, "broombot.kfm")
//	p, _ := patch.Load("add_ondie.yaml")
//	g, _ := index.Build(f.Body)
//	g, err := patch.ApplyAtomic(g, p)
//	if err != nil {
//	    return err
//	}
//	f.Body = g.Flatten()
//	_ = kfmio.Export(ctx, f, "broombot.kfm")
//
// [wire]: github.com/matzehuels/kfmtool/pkg/wire
// [kfm]: github.com/matzehuels/kfmtool/pkg/kfm
// [index]: github.com/matzehuels/kfmtool/pkg/index
// [selector]: github.com/matzehuels/kfmtool/pkg/selector
// [patch]: github.com/matzehuels/kfmtool/pkg/patch
// [io]: github.com/matzehuels/kfmtool/pkg/io
// [header]: github.com/matzehuels/kfmtool/pkg/header
// [render/nodelink]: github.com/matzehuels/kfmtool/pkg/render/nodelink
// [errors]: github.com/matzehuels/kfmtool/pkg/errors
// [observability]: github.com/matzehuels/kfmtool/pkg/observability
// [yamlutil]: github.com/matzehuels/kfmtool/pkg/yamlutil
package pkg
