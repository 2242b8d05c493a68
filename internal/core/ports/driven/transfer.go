package driven

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// TransferChannel moves files between a source or destination and the local disk.
// Remote directories use forward slashes regardless of platform.
type TransferChannel interface {
	// Fetch copies every regular file in sourceDir into localDir and
	// returns the local paths ordered by file name.
	Fetch(ctx context.Context, sourceDir, localDir string) ([]string, error)

	// Deliver copies localPath to destDir under name and returns the destination path.
	Deliver(ctx context.Context, localPath, destDir, name string) (string, error)

	// Move relocates sourceDir/name to destDir/name. The local copy is
	// uploaded first and the source removed; if removal fails the source
	// is renamed into place instead.
	Move(ctx context.Context, sourceDir, name, localCopy, destDir string) error

	// Close releases the connection.
	Close() error
}

// TransferFactory opens the channel a flow is configured for.
type TransferFactory interface {
	Open(ctx context.Context, flow domain.FlowDefinition) (TransferChannel, error)
}
