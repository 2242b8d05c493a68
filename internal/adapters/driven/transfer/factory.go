package transfer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/domain"
	"github.com/carlroyjohnson60-sketch/JTLogistics/internal/core/ports/driven"
)

// Ensure Factory implements the interface.
var _ driven.TransferFactory = (*Factory)(nil)

// Factory opens the channel matching a flow's transfer mode.
type Factory struct {
	cfg    *domain.Config
	logger *zap.Logger
}

// NewFactory creates a factory over the loaded configuration.
func NewFactory(cfg *domain.Config, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{cfg: cfg, logger: logger}
}

// Open connects the channel for flow. Local channels are rooted at the
// configuration's working directory.
func (f *Factory) Open(ctx context.Context, flow domain.FlowDefinition) (driven.TransferChannel, error) {
	partner := f.cfg.Partners[flow.Partner]
	switch mode := flow.Mode(); mode {
	case domain.TransferLocal:
		return NewLocalChannel(f.cfg.WorkingDir()), nil
	case domain.TransferSFTP:
		if partner.SFTP == nil {
			return nil, fmt.Errorf("%w: partners.%s.sftp", domain.ErrMissingConfig, flow.Partner)
		}
		return DialSFTP(ctx, *partner.SFTP, f.logger)
	case domain.TransferS3:
		if partner.S3 == nil {
			return nil, fmt.Errorf("%w: partners.%s.s3", domain.ErrMissingConfig, flow.Partner)
		}
		client, err := NewS3Client(ctx, *partner.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Channel(client, partner.S3.Bucket, f.logger), nil
	default:
		return nil, fmt.Errorf("%w: transfer mode %q", domain.ErrUnsupportedType, mode)
	}
}
