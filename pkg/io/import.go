package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/observability"
	"github.com/matzehuels/kfmtool/pkg/yamlutil"
)

// ReadKFM decodes a binary asset from r. ReadKFM does not close r.
func ReadKFM(r io.Reader) (*kfm.File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return kfm.Decode(data)
}

// ReadYAML decodes the YAML form of an asset from r. Unknown fields are
// rejected so that typos in hand-edited files surface as errors, and every
// field except a transition's ext must be present: a file without a header
// would otherwise silently become big-endian version 0.
// ReadYAML does not close r.
func ReadYAML(r io.Reader) (*kfm.File, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty document")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}
	var f kfm.File
	if err := yamlutil.Decode(&doc, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}
	return &f, nil
}

// Import reads the asset at path, choosing the codec from its extension.
func Import(ctx context.Context, path string) (f *kfm.File, err error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	size := 0
	observability.IO().OnReadStart(ctx, path, string(format))
	defer func() {
		observability.IO().OnReadComplete(ctx, path, string(format), size, time.Since(start), err)
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	size = len(data)

	switch format {
	case FormatKFM:
		var n int
		if f, n, err = kfm.DecodePrefix(data); err == nil && n < len(data) {
			observability.IO().OnTrailingData(ctx, path, len(data)-n)
		}
	default:
		f, err = ReadYAML(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}
