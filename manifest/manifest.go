// Package manifest records the layout of a persisted bus.
//
// A manifest lists every frame of the bus in order, together with the blob
// holding it and the frame's shape, so a bus can be reopened with all
// entries unloaded but their metadata known. Manifests are versioned by a
// generation counter; a CURRENT blob names the live one.
package manifest

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/codec"
)

const (
	ManifestFileName = "MANIFEST"
	CurrentFileName  = "CURRENT"
	CurrentVersion   = 1
)

// ErrNoManifest is returned by Load when nothing was persisted under the
// prefix.
var ErrNoManifest = errors.New("manifest: no manifest found")

// Manifest describes a persisted bus at one generation.
type Manifest struct {
	Version    int         `json:"version"`
	ID         uuid.UUID   `json:"id"`
	Generation uint64      `json:"generation"`
	Name       codec.Label `json:"name"`
	MaxLoaded  int         `json:"max_loaded,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	Frames     []FrameInfo `json:"frames"`
}

// FrameInfo describes a single persisted frame.
type FrameInfo struct {
	Name     codec.Label `json:"name"`
	Path     string      `json:"path"` // relative to the prefix
	Rows     int         `json:"rows"`
	Cols     int         `json:"cols"`
	Size     int64       `json:"size"`
	Checksum uint64      `json:"checksum"` // xxhash64 of the blob
}

// Store reads and writes manifests under a prefix of a blob store.
type Store struct {
	blobs  blobstore.BlobStore
	prefix string
}

// NewStore creates a manifest store rooted at prefix.
func NewStore(blobs blobstore.BlobStore, prefix string) *Store {
	return &Store{blobs: blobs, prefix: strings.Trim(prefix, "/")}
}

// Path joins name onto the store prefix.
func (s *Store) Path(name string) string {
	return path.Join(s.prefix, name)
}

// Load loads the current manifest.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	current, err := blobstore.ReadAll(ctx, s.blobs, s.Path(CurrentFileName))
	if errors.Is(err, blobstore.ErrNotFound) {
		return nil, fmt.Errorf("%w under %q", ErrNoManifest, s.prefix)
	}
	if err != nil {
		return nil, err
	}

	data, err := blobstore.ReadAll(ctx, s.blobs, s.Path(strings.TrimSpace(string(current))))
	if err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", current, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode: %w", err)
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported manifest version: %d (expected %d)", m.Version, CurrentVersion)
	}
	return &m, nil
}

// Save writes m as the next generation and then points CURRENT at it.
// A new manifest ID is assigned when m has none. The previous generation's
// manifest is removed once CURRENT has moved.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	prev, err := s.Load(ctx)
	switch {
	case errors.Is(err, ErrNoManifest):
		m.Generation = 1
	case err != nil:
		return err
	default:
		m.Generation = prev.Generation + 1
	}
	m.Version = CurrentVersion
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	filename := fileName(m.Generation)
	if err := s.blobs.Put(ctx, s.Path(filename), data); err != nil {
		return err
	}
	if err := s.blobs.Put(ctx, s.Path(CurrentFileName), []byte(filename)); err != nil {
		return err
	}
	if prev != nil {
		// Best effort; a stale manifest is harmless.
		_ = s.blobs.Delete(ctx, s.Path(fileName(prev.Generation)))
	}
	return nil
}

func fileName(generation uint64) string {
	return fmt.Sprintf("%s-%06d.json", ManifestFileName, generation)
}
