package remote

import (
	"errors"
	"fmt"
)

// Kind tags a store failure so call sites can match on it instead of
// inspecting error strings.
type Kind int

const (
	// KindNetwork covers transient failures: the store is unreachable or
	// erroring. Callers recover locally (offline queue, cache fallback).
	KindNetwork Kind = iota
	// KindNotConfigured means no remote store was configured at all. Treated
	// identically to a transient failure: fallback kicks in immediately and
	// permanently.
	KindNotConfigured
	// KindValidation means the row itself was rejected; retrying the same
	// payload will not help.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotConfigured:
		return "not_configured"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// StoreError wraps a failed store operation with its Kind.
type StoreError struct {
	Kind  Kind
	Op    string // "upsert", "select", "delete"
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote %s on %s failed (%s)", e.Op, e.Table, e.Kind)
	}
	return fmt.Sprintf("remote %s on %s failed (%s): %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from err, defaulting to KindNetwork for anything
// that is not a StoreError so unknown failures get the safe fallback path.
func KindOf(err error) Kind {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindNetwork
}

// IsNotConfigured reports whether err came from a Disabled store.
func IsNotConfigured(err error) bool {
	return err != nil && KindOf(err) == KindNotConfigured
}
