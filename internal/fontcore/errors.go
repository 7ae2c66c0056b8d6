package fontcore

import "fmt"

// Kind is a tagged error variant, mirroring the original Rust font-core
// error enum as a flat set of sentinel-comparable values rather than a
// type hierarchy.
type Kind string

const (
	KindIO                   Kind = "io"
	KindParse                Kind = "parse"
	KindNotFound             Kind = "not_found"
	KindUnsupportedFormat    Kind = "unsupported_format"
	KindLicenseRestriction   Kind = "license_restriction"
	KindInvalidFontName      Kind = "invalid_font_name"
	KindPlatformNotSupported Kind = "platform_not_supported"
	KindCacheError           Kind = "cache_error"
	KindMemoryLimitExceeded  Kind = "memory_limit_exceeded"
	KindDiskLimitExceeded    Kind = "disk_limit_exceeded"
)

// Error is the module's tagged error type. Wrap with fmt.Errorf("...: %w", err)
// at call sites the same way pkg/fontutils and cmd/diag do in the teacher
// codebase; use errors.Is/errors.As against Kind to branch on failure class.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, fontcore.NewError(KindNotFound, "", nil)) work as a
// kind-only sentinel comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// NotFound builds a KindNotFound error carrying the requested name, per
// spec.md §7's NotFound(name) variant.
func NotFound(name string) *Error {
	return NewError(KindNotFound, fmt.Sprintf("no source returned a face for %q", name), nil)
}

// MemoryLimitExceeded builds the quota-guard error with the used/limit
// figures spec.md §7 requires in the message.
func MemoryLimitExceeded(usedMB, limitMB int) *Error {
	return NewError(KindMemoryLimitExceeded,
		fmt.Sprintf("memory use %dMB exceeds limit %dMB", usedMB, limitMB), nil)
}

// DiskLimitExceeded builds the disk quota-guard error.
func DiskLimitExceeded(usedMB, limitMB int) *Error {
	return NewError(KindDiskLimitExceeded,
		fmt.Sprintf("disk use %dMB exceeds limit %dMB", usedMB, limitMB), nil)
}
