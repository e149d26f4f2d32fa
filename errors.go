package storefront

import (
	"errors"
	"fmt"
)

// ErrSetRejected is reported when the provider dropped a snapshot write
// (eviction or admission pressure) without an IO error.
var ErrSetRejected = errors.New("storefront: provider rejected snapshot write")

// Refresh stages.
const (
	StageGen    = "gen"
	StageQuery  = "query"
	StageEncode = "encode"
	StageSet    = "set"
)

// RefreshError reports which step of a snapshot refresh failed. The catalog
// write that triggered the refresh has already committed.
type RefreshError struct {
	Key   string
	Stage string
	Err   error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("refresh %q: %s failed: %v", e.Key, e.Stage, e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }
