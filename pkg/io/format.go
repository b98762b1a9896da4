package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/kfmtool/pkg/errors"
)

// Format identifies an on-disk form of a KFM asset.
type Format string

const (
	FormatKFM  Format = "kfm"
	FormatYAML Format = "yaml"
)

// DetectFormat returns the format implied by path's extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kfm":
		return FormatKFM, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported,
		"unsupported file type %q (want .kfm, .yaml or .yml)", filepath.Ext(path))
}

// SwapExtension returns the path convert writes to by default: a .kfm input
// maps to .yaml and a YAML input maps to .kfm, in the same directory.
func SwapExtension(path string) (string, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if f == FormatKFM {
		return base + ".yaml", nil
	}
	return base + ".kfm", nil
}
