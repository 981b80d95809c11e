package animation2d

import (
	"errors"
	"fmt"
)

// Structural error kinds, matched with errors.Is against the error returned
// by codec decoding and Definition finalization. No partial Definition is
// ever published when any of these are returned.
var (
	// ErrFormat covers malformed binary: bad magic/version, truncation,
	// out-of-range index, duplicate map key, inconsistent sizes.
	ErrFormat = errors.New("animation2d: format error")

	// ErrReference covers an unresolved name at finalization: missing
	// parent bone, IK/path/transform target, or a LinkedMesh parent of the
	// wrong attachment type.
	ErrReference = errors.New("animation2d: reference error")

	// ErrShape covers invariant violations: non-topological bone order,
	// an oversized path vertex-weight block, mesh UV/vertex mismatch.
	ErrShape = errors.New("animation2d: shape error")
)

func formatErrorf(format string, args ...any) error {
	return wrapf(ErrFormat, format, args...)
}

func referenceErrorf(format string, args ...any) error {
	return wrapf(ErrReference, format, args...)
}

func shapeErrorf(format string, args ...any) error {
	return wrapf(ErrShape, format, args...)
}

func wrapf(sentinel error, format string, args ...any) error {
	return &wrappedError{sentinel: sentinel, msg: fmt.Sprintf(format, args...)}
}

type wrappedError struct {
	sentinel error
	msg      string
}

func (e *wrappedError) Error() string { return e.msg }
func (e *wrappedError) Unwrap() error { return e.sentinel }
