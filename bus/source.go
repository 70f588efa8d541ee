package bus

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/codec"
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/manifest"
	"github.com/hupe1980/sframe/resource"
)

// Source materializes frames by name.
type Source interface {
	Load(ctx context.Context, name index.Label) (*frame.Frame, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, name index.Label) (*frame.Frame, error)

// Load calls f.
func (f SourceFunc) Load(ctx context.Context, name index.Label) (*frame.Frame, error) {
	return f(ctx, name)
}

// storeSource reads the frames listed in a manifest.
type storeSource struct {
	blobs     blobstore.BlobStore
	manifests *manifest.Store
	names     *index.Level
	frames    []manifest.FrameInfo
	rc        *resource.Controller
}

func (s *storeSource) Load(ctx context.Context, name index.Label) (*frame.Frame, error) {
	pos, err := s.names.Position(name)
	if err != nil {
		return nil, err
	}
	info := s.frames[pos]
	if err := s.rc.AcquireIO(ctx, int(info.Size)); err != nil {
		return nil, err
	}
	data, err := blobstore.ReadAll(ctx, s.blobs, s.manifests.Path(info.Path))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != info.Size || xxhash.Sum64(data) != info.Checksum {
		return nil, fmt.Errorf("%s does not match the manifest: %w", info.Path, codec.ErrCorrupt)
	}
	f, err := codec.UnmarshalFrame(data)
	if err != nil {
		return nil, err
	}
	if got := f.Shape(); got.Rows != info.Rows || got.Cols != info.Cols {
		return nil, core.NewStructuralError("load", "%s has shape %s, manifest says (%d, %d)", info.Path, got, info.Rows, info.Cols)
	}
	return f, nil
}
