package kfm

import (
	"encoding/binary"
	"fmt"

	"github.com/matzehuels/kfmtool/pkg/errors"
	"github.com/matzehuels/kfmtool/pkg/wire"
)

// Magic is the literal that follows the version byte in every KFM file.
const Magic = "Gamebryo KFM File Version 2.2.0.0b\n"

// HeaderSize is the encoded size of [Header]: version, magic and endianness flag.
const HeaderSize = wire.SizeU8 + len(Magic) + wire.SizeU8

// DefaultVersion is the version byte written for newly created files.
const DefaultVersion uint8 = 1

// Header is the fixed-layout prefix of a KFM file. It is read and written
// byte by byte, so it does not depend on the order it announces.
type Header struct {
	Version        uint8 `yaml:"version"`
	IsLittleEndian bool  `yaml:"is_little_endian"`
}

// ByteOrder returns the order used for every field after the header.
func (h Header) ByteOrder() binary.ByteOrder {
	if h.IsLittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// DecodeHeader reads and validates the header at the start of r.
func DecodeHeader(r *wire.Reader) (Header, error) {
	var h Header

	version, err := r.ReadU8()
	if err != nil {
		return h, fmt.Errorf("read version: %w", err)
	}

	magic, err := r.ReadBytes(len(Magic))
	if err != nil {
		return h, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != Magic {
		return h, errors.New(errors.ErrCodeFormat, "unexpected magic %q", magic)
	}

	flag, err := r.ReadU8()
	if err != nil {
		return h, fmt.Errorf("read is_little_endian: %w", err)
	}
	switch flag {
	case 0:
		h.IsLittleEndian = false
	case 1:
		h.IsLittleEndian = true
	default:
		return h, errors.New(errors.ErrCodeFormat, "unexpected is_little_endian %d", flag)
	}

	h.Version = version
	return h, nil
}

// EncodeHeader appends h to w.
func EncodeHeader(w *wire.Writer, h Header) {
	w.WriteU8(h.Version)
	w.WriteBytes([]byte(Magic))
	if h.IsLittleEndian {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}
