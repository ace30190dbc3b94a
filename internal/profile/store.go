package profile

import (
	"context"
	"errors"
	"iter"
)

// ErrNotFound is returned by stores when a profile id cannot be resolved.
var ErrNotFound = errors.New("profile not found")

// Filter narrows the candidate sequence served by a Store. Zero values mean
// "any": an empty role list matches every role, a nil SeekingTransfer skips
// the flag check.
type Filter struct {
	Roles           []Role
	Region          string
	SeekingTransfer *bool
}

// Match reports whether the profile passes the coarse filter.
func (f Filter) Match(p *Profile) bool {
	if p == nil {
		return false
	}
	if len(f.Roles) > 0 {
		found := false
		for _, role := range f.Roles {
			if p.Role == role {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Region != "" && p.Region != f.Region {
		return false
	}
	if f.SeekingTransfer != nil && p.SeekingTransfer != *f.SeekingTransfer {
		return false
	}
	return true
}

// Store serves read-only profile snapshots. The engine consumes it through
// this interface only; it never writes.
//
// ListCandidates yields a lazy, restartable sequence. A store that fails to
// materialize a candidate mid-iteration yields (nil, err) for that entry and
// keeps going, so the caller can skip bad entries without aborting the run.
type Store interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	ListCandidates(ctx context.Context, f Filter) iter.Seq2[*Profile, error]
}

// MemoryStore is an in-memory Store for tests and embedding.
type MemoryStore struct {
	profiles []*Profile
}

func NewMemoryStore(profiles ...*Profile) *MemoryStore {
	return &MemoryStore{profiles: profiles}
}

func (s *MemoryStore) GetProfile(_ context.Context, id string) (*Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListCandidates(ctx context.Context, f Filter) iter.Seq2[*Profile, error] {
	return func(yield func(*Profile, error) bool) {
		for _, p := range s.profiles {
			if ctx.Err() != nil {
				return
			}
			if !f.Match(p) {
				continue
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}
