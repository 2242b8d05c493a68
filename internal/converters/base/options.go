package base

import (
	"time"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Options carries what a converter needs beyond its input file.
type Options struct {
	// Lookup resolves packaging codes. Nil disables lookups.
	Lookup driven.PackagingLookup
	// Owner and Project scope packaging lookups and fill canonical order owner fields.
	Owner   string
	Project string
	// Now is the converter clock. Nil means time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Clock returns the current time from the configured clock.
func (o Options) Clock() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Log returns the configured logger or a no-op logger.
func (o Options) Log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// NewPackagingCache returns a cache for one conversion call.
func (o Options) NewPackagingCache() *PackagingCache {
	return NewPackagingCache(o.Lookup, o.Owner, o.Project, o.Log())
}
