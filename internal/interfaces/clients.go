// Package interfaces defines the contracts between Navcalc components.
package interfaces

import (
	"context"

	"github.com/bobmcallan/navcalc/internal/models"
)

// MFAPIClient fetches scheme data from the mfapi.in-style NAV provider.
type MFAPIClient interface {
	// GetScheme fetches metadata and the full NAV history for one scheme.
	GetScheme(ctx context.Context, code string) (*models.Scheme, error)

	// ListSchemes fetches the provider's full scheme directory.
	ListSchemes(ctx context.Context) ([]models.SchemeListEntry, error)
}
