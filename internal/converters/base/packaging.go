package base

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// PackagingCache resolves material codes to packaging codes and remembers
// every answer, including defaults, for the life of one conversion call.
type PackagingCache struct {
	lookup  driven.PackagingLookup
	owner   string
	project string
	logger  *zap.Logger
	entries map[string]string
}

// NewPackagingCache creates an empty cache. A nil lookup resolves everything to the default.
func NewPackagingCache(lookup driven.PackagingLookup, owner, project string, logger *zap.Logger) *PackagingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackagingCache{
		lookup:  lookup,
		owner:   owner,
		project: project,
		logger:  logger,
		entries: make(map[string]string),
	}
}

// Resolve returns the packaging code for material. Lookup failures and
// empty answers degrade to domain.DefaultPackaging and never fail.
func (c *PackagingCache) Resolve(ctx context.Context, material string) string {
	key := strings.TrimSpace(material)
	if key == "" {
		return domain.DefaultPackaging
	}
	if p, ok := c.entries[key]; ok {
		return p
	}

	packaging := domain.DefaultPackaging
	if c.lookup != nil {
		candidates, err := c.lookup.Lookup(ctx, c.owner, c.project, key)
		if err != nil {
			c.logger.Warn("packaging lookup failed", zap.String("material", key), zap.Error(err))
		} else {
			packaging = SelectPackaging(candidates)
		}
	}

	c.entries[key] = packaging
	c.logger.Debug("packaging resolved", zap.String("material", key), zap.String("packaging", packaging))
	return packaging
}

// Len returns the number of cached materials.
func (c *PackagingCache) Len() int {
	return len(c.entries)
}

// SelectPackaging picks the candidate with the smallest positive base
// quantity, first one winning ties. Without a usable quantity the first
// candidate's code is used, and without candidates the default.
func SelectPackaging(candidates []domain.PackagingCandidate) string {
	best := -1
	for i, c := range candidates {
		if c.BaseQuantity == nil || *c.BaseQuantity <= 0 || strings.TrimSpace(c.Packaging) == "" {
			continue
		}
		if best < 0 || *c.BaseQuantity < *candidates[best].BaseQuantity {
			best = i
		}
	}
	if best >= 0 {
		return strings.TrimSpace(candidates[best].Packaging)
	}
	if len(candidates) > 0 {
		if p := strings.TrimSpace(candidates[0].Packaging); p != "" {
			return p
		}
	}
	return domain.DefaultPackaging
}
