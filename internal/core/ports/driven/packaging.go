package driven

import (
	"context"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
)

// PackagingLookup queries the material API for a material's packagings.
type PackagingLookup interface {
	Lookup(ctx context.Context, owner, project, material string) ([]domain.PackagingCandidate, error)
}
