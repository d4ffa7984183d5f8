package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// providerLocation returns nil when the provider has no registered location
// or no profile at all.
func providerLocation(ctx context.Context, directory ports.PartyDirectory, providerID kernel.UUID) (*kernel.Location, error) {
	p, err := directory.Party(ctx, providerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.Location(), nil
}
