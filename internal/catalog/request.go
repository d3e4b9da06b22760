package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// Actions accepted by the catalog service.
const (
	ActionSearch  = "search"
	ActionDetails = "details"
)

const (
	defaultPage    = 1
	defaultPerPage = 20
)

// Request is the only externally visible query shape. Exactly one action is
// set per request; the remaining fields are interpreted according to it.
type Request struct {
	Action   string `json:"action"`
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
	Page     int    `json:"page,omitempty"`
	PerPage  int    `json:"perPage,omitempty"`
	AppID    string `json:"appId,omitempty"`
}

// Normalize applies the documented defaults and validates the request. It
// must be called before CacheKey so structurally identical queries collide on
// the same key.
func (r *Request) Normalize() error {
	switch r.Action {
	case ActionSearch:
		if r.Page == 0 {
			r.Page = defaultPage
		}
		if r.PerPage == 0 {
			r.PerPage = defaultPerPage
		}
		if r.Page < 1 {
			return fmt.Errorf("%w: page must be positive", ErrInvalidRequest)
		}
		if r.PerPage < 1 {
			return fmt.Errorf("%w: perPage must be positive", ErrInvalidRequest)
		}
	case ActionDetails:
		if strings.TrimSpace(r.AppID) == "" {
			return fmt.Errorf("%w: appId required for details", ErrInvalidRequest)
		}
	case "":
		return fmt.Errorf("%w: action required", ErrInvalidRequest)
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, r.Action)
	}
	return nil
}

// CacheKey derives the deterministic lookup key for a normalized request. The
// key is the ordered request tuple joined with "|" under an epoch-scoped
// namespace; bumping the epoch retires every previously derived key without
// touching stored entries. A "|" inside a field would alias two keys, which
// is accepted as an edge-case risk rather than escaped.
func (r Request) CacheKey(epoch int) string {
	fields := []string{
		r.Action,
		r.Query,
		r.Category,
		strconv.Itoa(r.Page),
		strconv.Itoa(r.PerPage),
		r.AppID,
	}
	return KeyPrefix(epoch) + strings.Join(fields, "|")
}

// KeyPrefix returns the namespace prefix shared by every key of the given
// epoch. Reload invalidation deletes by this prefix on backends that support
// it.
func KeyPrefix(epoch int) string {
	return fmt.Sprintf("catalog:%d:", epoch)
}
