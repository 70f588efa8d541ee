package sframe

import (
	"github.com/hupe1980/sframe/blobstore"
	"github.com/hupe1980/sframe/codec"
	"github.com/hupe1980/sframe/core"
	"github.com/hupe1980/sframe/manifest"
	"github.com/hupe1980/sframe/resource"
)

// Errors returned by index, frame and bus operations. Match them with
// errors.Is; the typed errors below carry details and unwrap to these.
var (
	ErrStructural     = core.ErrStructural
	ErrNonUnique      = core.ErrNonUnique
	ErrKeyNotFound    = core.ErrKeyNotFound
	ErrType           = core.ErrType
	ErrNotImplemented = core.ErrNotImplemented

	// ErrMemoryLimit is returned when a frame does not fit the memory
	// budget even after evicting every other resident frame.
	ErrMemoryLimit = resource.ErrMemoryLimit

	// ErrNotFound is returned by blob stores for missing blobs.
	ErrNotFound = blobstore.ErrNotFound

	// ErrCorrupt is returned when a persisted frame fails validation.
	ErrCorrupt = codec.ErrCorrupt

	// ErrNoManifest is returned when opening a prefix that holds no bus.
	ErrNoManifest = manifest.ErrNoManifest
)

type (
	StructuralError = core.StructuralError
	NonUniqueError  = core.NonUniqueError
	KeyError        = core.KeyError
	TypeError       = core.TypeError
)
