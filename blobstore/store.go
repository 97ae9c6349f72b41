// Package blobstore abstracts where serialized table snapshots live.
//
// The engine itself performs no I/O; this package is the collaborator that
// persists snapshot bytes under names. Implementations exist for memory
// (tests), S3, MinIO and DynamoDB.
package blobstore

import (
	"bytes"
	"context"
	"os"

	"github.com/hupe1980/datatable"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for named, immutable blobs.
type Store interface {
	// Put writes a blob atomically, replacing any existing blob.
	Put(ctx context.Context, name string, data []byte) error
	// Get reads a whole blob. Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names under prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// SaveModel writes a snapshot of m to the store under name.
func SaveModel(ctx context.Context, s Store, name string, m *datatable.DataModel, opts ...datatable.SnapshotOption) error {
	var buf bytes.Buffer
	if err := m.WriteSnapshot(&buf, opts...); err != nil {
		return err
	}
	return s.Put(ctx, name, buf.Bytes())
}

// LoadModel reads the snapshot stored under name and reconstructs the
// table.
func LoadModel(ctx context.Context, s Store, name string, opts ...datatable.Option) (*datatable.DataModel, error) {
	data, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return datatable.ReadSnapshot(bytes.NewReader(data), opts...)
}
