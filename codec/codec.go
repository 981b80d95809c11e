// Package codec implements the on-wire binary container format of a
// rigged-character Definition: interned string tables, a signature/version
// gated header, filename-derived XOR obfuscation, and ZSTD compression
// (§6.1, §6.2).
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Signature is the magic number every container begins with.
const Signature uint32 = 0x480129D0

// Version is the only binary layout this codec reads or writes.
const Version uint32 = 2

// TargetPlatform tags which platform's path separator a container's
// relative-path table was written with.
type TargetPlatform uint8

const (
	PlatformPC TargetPlatform = iota
	PlatformMobile
	PlatformConsole
)

// obfuscationSeed is the XOR key derivation's starting value (§6.2).
const obfuscationSeed uint32 = 0x90B43928

// obfuscationMultiplier is the per-byte key-mixing multiplier (§6.2).
const obfuscationMultiplier uint32 = 33

// obfuscationStride is the per-4-byte-group additive term's divisor (§6.2).
const obfuscationStride = 4

// obfuscationStrideMultiplier is the per-4-byte-group additive term's
// multiplier (§6.2).
const obfuscationStrideMultiplier = 101

// DeriveKey computes the XOR stream's base key from a file's base name
// (without extension), lowercased: k = 0x90B43928, then k = k*33 + c for
// each byte c.
func DeriveKey(baseName string) uint32 {
	name := strings.TrimSuffix(path.Base(baseName), path.Ext(baseName))
	k := obfuscationSeed
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		k = k*obfuscationMultiplier + uint32(c)
	}
	return k
}

// Obfuscate XORs payload in place against the filename-derived stream; the
// same call deobfuscates, since XOR is its own inverse (§6.2 invariant 4).
func Obfuscate(payload []byte, baseName string) {
	k := DeriveKey(baseName)
	for i := range payload {
		shift := uint((i & 3) << 3)
		payload[i] ^= byte((k>>shift)&0xFF) + byte((i/obfuscationStride)*obfuscationStrideMultiplier)
	}
}

// Header is the container's fixed leading metadata.
type Header struct {
	Signature      uint32
	Version        uint32
	TargetPlatform TargetPlatform
}

// ErrBadSignature is returned when a container's magic number does not
// match Signature.
var ErrBadSignature = fmt.Errorf("codec: bad signature")

// ErrBadVersion is returned when a container's version is not Version.
var ErrBadVersion = fmt.Errorf("codec: unsupported version")

// Writer serializes a container body: a header, two interned string
// tables (short names, relative paths), then the caller's structurally
// serialized fields, all little-endian per §6.1. Call Finish to obtain the
// obfuscated, ZSTD-compressed bytes.
type Writer struct {
	platform TargetPlatform
	baseName string

	body bytes.Buffer

	names     []string
	nameIndex map[string]uint16

	paths     []string
	pathIndex map[string]uint16
}

// NewWriter starts a container write targeting platform, obfuscated using
// baseName (typically the output file's name).
func NewWriter(platform TargetPlatform, baseName string) *Writer {
	return &Writer{
		platform:  platform,
		baseName:  baseName,
		nameIndex: make(map[string]uint16),
		pathIndex: make(map[string]uint16),
	}
}

// InternName interns s into the short-name table, returning its stable id.
func (w *Writer) InternName(s string) uint16 {
	if id, ok := w.nameIndex[s]; ok {
		return id
	}
	id := uint16(len(w.names))
	w.names = append(w.names, s)
	w.nameIndex[s] = id
	return id
}

// InternPath interns a slash-normalized relative path into the path
// table, rewriting its separators to the target platform's convention,
// and returns its stable id.
func (w *Writer) InternPath(relPath string) uint16 {
	normalized := strings.ReplaceAll(relPath, "\\", "/")
	onWire := normalized
	if w.platform != PlatformPC {
		onWire = strings.ReplaceAll(normalized, "/", string(platformSeparator(w.platform)))
	}
	if id, ok := w.pathIndex[onWire]; ok {
		return id
	}
	id := uint16(len(w.paths))
	w.paths = append(w.paths, onWire)
	w.pathIndex[onWire] = id
	return id
}

// Body returns the underlying buffer the caller writes structural fields
// into, in the fixed field order of §6.1.
func (w *Writer) Body() *bytes.Buffer { return &w.body }

func platformSeparator(p TargetPlatform) rune {
	if p == PlatformConsole {
		return '\\'
	}
	return '/'
}

// Finish assembles the header, string tables, and body into one buffer,
// obfuscates it, and ZSTD-compresses the result.
func (w *Writer) Finish() ([]byte, error) {
	var raw bytes.Buffer
	if err := binary.Write(&raw, binary.LittleEndian, Signature); err != nil {
		return nil, err
	}
	if err := binary.Write(&raw, binary.LittleEndian, Version); err != nil {
		return nil, err
	}
	if err := raw.WriteByte(byte(w.platform)); err != nil {
		return nil, err
	}
	if err := writeStringTable(&raw, w.names); err != nil {
		return nil, err
	}
	if err := writeStringTable(&raw, w.paths); err != nil {
		return nil, err
	}
	if _, err := raw.Write(w.body.Bytes()); err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd writer: %w", err)
	}
	defer enc.Close()
	compressed := enc.EncodeAll(raw.Bytes(), nil)

	Obfuscate(compressed, w.baseName)
	return compressed, nil
}

func writeStringTable(w io.Writer, entries []string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(entries))); err != nil {
		return err
	}
	for _, s := range entries {
		b := []byte(s)
		if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// Reader deserializes a container written by Writer: it deobfuscates,
// decompresses, validates the header, and exposes the interned string
// tables plus a cursor over the remaining body for the caller's
// structural reads.
type Reader struct {
	Header Header
	Names  []string
	Paths  []string

	body *bytes.Reader
}

// NewReader decompresses and parses raw (the obfuscated, ZSTD-compressed
// bytes produced by Writer.Finish), deobfuscating with baseName.
func NewReader(raw []byte, baseName string) (*Reader, error) {
	plain := append([]byte(nil), raw...)
	Obfuscate(plain, baseName)

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd reader: %w", err)
	}
	defer dec.Close()
	decoded, err := dec.DecodeAll(plain, nil)
	if err != nil {
		return nil, fmt.Errorf("codec: zstd decode: %w", err)
	}

	buf := bytes.NewReader(decoded)
	var sig, ver uint32
	if err := binary.Read(buf, binary.LittleEndian, &sig); err != nil {
		return nil, fmt.Errorf("codec: read signature: %w", err)
	}
	if sig != Signature {
		return nil, ErrBadSignature
	}
	if err := binary.Read(buf, binary.LittleEndian, &ver); err != nil {
		return nil, fmt.Errorf("codec: read version: %w", err)
	}
	if ver != Version {
		return nil, ErrBadVersion
	}
	platformByte, err := buf.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("codec: read platform: %w", err)
	}

	names, err := readStringTable(buf)
	if err != nil {
		return nil, fmt.Errorf("codec: read name table: %w", err)
	}
	paths, err := readStringTable(buf)
	if err != nil {
		return nil, fmt.Errorf("codec: read path table: %w", err)
	}
	for i, p := range paths {
		paths[i] = strings.ReplaceAll(p, "\\", "/")
	}

	return &Reader{
		Header: Header{Signature: sig, Version: ver, TargetPlatform: TargetPlatform(platformByte)},
		Names:  names,
		Paths:  paths,
		body:   buf,
	}, nil
}

// Body returns the remaining body bytes for the caller's structural
// reads, in the fixed field order of §6.1.
func (r *Reader) Body() *bytes.Reader { return r.body }

// Name resolves an interned short-name id.
func (r *Reader) Name(id uint16) (string, error) {
	if int(id) >= len(r.Names) {
		return "", fmt.Errorf("codec: name id %d out of range (%d entries)", id, len(r.Names))
	}
	return r.Names[id], nil
}

// Path resolves an interned relative-path id.
func (r *Reader) Path(id uint16) (string, error) {
	if int(id) >= len(r.Paths) {
		return "", fmt.Errorf("codec: path id %d out of range (%d entries)", id, len(r.Paths))
	}
	return r.Paths[id], nil
}

func readStringTable(r io.Reader) ([]string, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, err
		}
		out[i] = string(b)
	}
	return out, nil
}
