// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("buses/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	b, err := bus.Open(ctx, store, "prices")
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads for large frames
//   - CRC32C checksums on every upload
//   - Automatic pagination for listing
package s3
