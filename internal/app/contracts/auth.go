package contracts

import (
	"appointment-composite-service/internal/app/models"
	"context"
	"errors"
)

// ErrInvalidCredential is returned, possibly wrapped, by every TokenVerifier failure.
var ErrInvalidCredential = errors.New("invalid credential")

type TokenVerifier interface {
	Verify(ctx context.Context, credential string) (*models.Identity, error)
}
