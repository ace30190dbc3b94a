package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"os"

	"github.com/mitchellh/mapstructure"
)

// FileStore is a JSON-file-backed Store. It is a fixture-grade adapter for
// the CLI and tests; real deployments are expected to plug their own Store.
//
// File shape:
//
//	{"profiles": [{"id": "...", "role": "player", ...}, ...]}
type FileStore struct {
	entries []fileEntry
}

type fileEntry struct {
	profile *Profile
	err     error
}

type profilesFile struct {
	Profiles []map[string]any `json:"profiles"`
}

// NewFileStore loads the profiles file at path. The file itself must parse;
// individual malformed entries are kept as per-entry errors and surface
// during iteration so a single bad profile does not poison the whole pool.
func NewFileStore(path string) (*FileStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file %q: %w", path, err)
	}

	var parsed profilesFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parsing profiles file %q: %w", path, err)
	}

	store := &FileStore{entries: make([]fileEntry, 0, len(parsed.Profiles))}
	for i, raw := range parsed.Profiles {
		store.entries = append(store.entries, decodeEntry(i, raw))
	}

	return store, nil
}

func decodeEntry(index int, raw map[string]any) fileEntry {
	var p Profile

	cfg := &mapstructure.DecoderConfig{
		Result:  &p,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return fileEntry{err: fmt.Errorf("profile entry %d: %w", index, err)}
	}
	if err := decoder.Decode(raw); err != nil {
		return fileEntry{err: fmt.Errorf("profile entry %d: %w", index, err)}
	}

	if p.ID == "" {
		return fileEntry{err: fmt.Errorf("profile entry %d: missing id", index)}
	}

	role, err := ParseRole(string(p.Role))
	if err != nil {
		return fileEntry{err: fmt.Errorf("profile entry %d (%s): %w", index, p.ID, err)}
	}
	p.Role = role

	return fileEntry{profile: &p}
}

func (s *FileStore) GetProfile(_ context.Context, id string) (*Profile, error) {
	for _, entry := range s.entries {
		if entry.profile != nil && entry.profile.ID == id {
			return entry.profile, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) ListCandidates(ctx context.Context, f Filter) iter.Seq2[*Profile, error] {
	return func(yield func(*Profile, error) bool) {
		for _, entry := range s.entries {
			if ctx.Err() != nil {
				return
			}
			if entry.err != nil {
				if !yield(nil, entry.err) {
					return
				}
				continue
			}
			if !f.Match(entry.profile) {
				continue
			}
			if !yield(entry.profile, nil) {
				return
			}
		}
	}
}

// Len returns the number of loaded entries, including malformed ones.
func (s *FileStore) Len() int {
	return len(s.entries)
}
