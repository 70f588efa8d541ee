// Package blobstore provides the storage abstraction behind persisted buses.
//
// A BlobStore holds immutable, named blobs: one per frame plus a manifest.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, used by tests
//   - LocalStore: local filesystem with mmap reads and an advisory lock
//   - CachingStore: block cache in front of any other store
//   - s3.Store, minio.Store, badger.Store: remote and embedded backends
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error   // atomic replace
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// A Blob that can hand out its whole contents without copying may also
// implement Mappable.
package blobstore
