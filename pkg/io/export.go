package io

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/kfmtool/pkg/kfm"
	"github.com/matzehuels/kfmtool/pkg/observability"
)

// WriteKFM encodes f in binary form and writes it to w.
func WriteKFM(f *kfm.File, w io.Writer) error {
	data, err := kfm.Encode(f)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// WriteYAML encodes f in YAML form, indented by two spaces, and writes it to w.
// The output can be re-imported with [ReadYAML].
func WriteYAML(f *kfm.File, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Export writes f to path, choosing the codec from its extension.
// The file is only created once encoding has succeeded, so a failed export
// never leaves a truncated asset behind.
func Export(ctx context.Context, f *kfm.File, path string) (err error) {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}

	start := time.Now()
	var buf bytes.Buffer
	observability.IO().OnWriteStart(ctx, path, string(format))
	defer func() {
		observability.IO().OnWriteComplete(ctx, path, string(format), buf.Len(), time.Since(start), err)
	}()

	switch format {
	case FormatKFM:
		err = WriteKFM(f, &buf)
	default:
		err = WriteYAML(f, &buf)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return nil
}
