package bus

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/codec"
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/frame"
	"github.com/hupe1980/sframe/index"
	"github.com/hupe1980/sframe/internal/cache"
	"github.com/hupe1980/sframe/manifest"
)

const framesDir = "frames"

// Open reopens a bus persisted under prefix. Nothing is loaded; shapes come
// from the manifest. The persisted name and residency bound apply unless
// overridden by WithName and WithMaxResident.
func Open(ctx context.Context, blobs blobstore.BlobStore, prefix string, optFns ...Option) (*Bus, error) {
	opts := newOptions(optFns)
	if opts.err != nil {
		return nil, opts.err
	}
	if opts.blockCacheSize > 0 {
		blobs = blobstore.NewCachingStore(blobs, cache.NewLRUBlockCache(opts.blockCacheSize, opts.rc), 0)
	}

	ms := manifest.NewStore(blobs, prefix)
	m, err := ms.Load(ctx)
	if err != nil {
		return nil, err
	}

	labels := make([]index.Label, len(m.Frames))
	for i, fi := range m.Frames {
		if labels[i], err = fi.Name.Decode(); err != nil {
			return nil, fmt.Errorf("bus: manifest entry %d: %w", i, err)
		}
	}
	names, err := index.New(labels)
	if err != nil {
		return nil, err
	}
	if !opts.hasName {
		if opts.name, err = m.Name.Decode(); err != nil {
			return nil, fmt.Errorf("bus: manifest name: %w", err)
		}
	}
	if opts.maxResident == 0 {
		opts.maxResident = m.MaxLoaded
	}

	src := &storeSource{
		blobs:     blobs,
		manifests: ms,
		names:     names,
		frames:    m.Frames,
		rc:        opts.rc,
	}
	b := newBus(names, src, opts)
	for i, fi := range m.Frames {
		b.slots[i].shape = core.Shape{Rows: fi.Rows, Cols: fi.Cols}
		b.slots[i].known = true
	}
	return b, nil
}

// Persist writes every frame and a new manifest under prefix. Resident
// frames are written as they are; others are read from the source without
// changing residency. Frames are encoded and written in parallel, bounded
// by the resource controller's worker count.
//
// Frames of earlier generations are left in place; see Vacuum.
func (b *Bus) Persist(ctx context.Context, blobs blobstore.BlobStore, prefix string) (err error) {
	start := time.Now()
	b.mu.Lock()
	names := make([]index.Label, len(b.slots))
	frames := make([]*frame.Frame, len(b.slots))
	for i, s := range b.slots {
		names[i] = s.name
		frames[i] = s.frame
	}
	b.mu.Unlock()
	defer func() { b.observer.OnPersist(time.Since(start), len(names), err) }()

	ms := manifest.NewStore(blobs, prefix)
	id := uuid.New()
	infos := make([]manifest.FrameInfo, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.rc.Workers(), 1))
	for i := range names {
		g.Go(func() error {
			if err := b.rc.AcquireBackground(gctx); err != nil {
				return err
			}
			defer b.rc.ReleaseBackground()

			f := frames[i]
			if f == nil {
				var err error
				if f, err = b.source.Load(gctx, names[i]); err != nil {
					return fmt.Errorf("bus: persist %s: %w", index.Format(names[i]), err)
				}
			}
			data, err := codec.MarshalFrame(f, codec.WithCompression(b.opts.compression))
			if err != nil {
				return fmt.Errorf("bus: persist %s: %w", index.Format(names[i]), err)
			}
			name, err := codec.EncodeLabel(names[i])
			if err != nil {
				return err
			}
			rel := path.Join(framesDir, id.String(), fmt.Sprintf("%06d.sfrm", i))
			if err := blobs.Put(gctx, ms.Path(rel), data); err != nil {
				return err
			}
			shape := f.Shape()
			infos[i] = manifest.FrameInfo{
				Name:     name,
				Path:     rel,
				Rows:     shape.Rows,
				Cols:     shape.Cols,
				Size:     int64(len(data)),
				Checksum: xxhash.Sum64(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	busName, err := codec.EncodeLabel(b.name)
	if err != nil {
		return err
	}
	return ms.Save(ctx, &manifest.Manifest{
		ID:        id,
		Name:      busName,
		MaxLoaded: b.maxResident,
		Frames:    infos,
	})
}

// Vacuum deletes frame blobs under prefix that the current manifest does
// not reference and returns how many were removed. Buses still reading an
// older generation must be closed first.
func Vacuum(ctx context.Context, blobs blobstore.BlobStore, prefix string) (int, error) {
	ms := manifest.NewStore(blobs, prefix)
	m, err := ms.Load(ctx)
	if err != nil {
		return 0, err
	}
	live := make(map[string]struct{}, len(m.Frames))
	for _, fi := range m.Frames {
		live[ms.Path(fi.Path)] = struct{}{}
	}

	dir := ms.Path(framesDir) + "/"
	all, err := blobs.List(ctx, strings.TrimPrefix(dir, "/"))
	if err != nil {
		return 0, err
	}
	removed := 0
	var errs []error
	for _, name := range all {
		if _, ok := live[name]; ok {
			continue
		}
		if err := blobs.Delete(ctx, name); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
