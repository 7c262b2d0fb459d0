package blob

import (
	"context"
	"fmt"
)

// OpenStore constructs the document store for the configured driver.
func OpenStore(ctx context.Context, driver Driver, uploadDir string, s3cfg S3Config) (Store, error) {
	switch driver {
	case DriverFilesystem, "":
		return NewFilesystemStore(uploadDir)
	case DriverS3:
		return NewS3Store(ctx, s3cfg)
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown blob driver %q", driver)
}
