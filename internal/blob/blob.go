// Package blob provides document storage for applicant files (CVs and extra
// documents). The contract is deliberately small: store bytes under a name,
// read them back, delete them. Three drivers exist: local filesystem (the
// default), S3, and an in-memory driver for tests.
package blob

import (
	"context"
	"errors"
)

// Driver identifies a blob backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// ErrNotFound indicates the named document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the document storage contract. Store overwrites an existing name;
// Delete on a missing name is not an error.
type Store interface {
	Driver() Driver
	Store(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}
