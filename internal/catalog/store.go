package catalog

import (
	"context"
	"errors"
	"sort"

	"github.com/maosdefada/loja/internal/domain"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a document id does not exist in the store,
// e.g. the product was deleted by another admin session first.
var ErrNotFound = errors.New("catalog: product not found")

// Store is the catalog document collection. Documents are keyed by an opaque
// DocID assigned by the store, distinct from the business id used for
// display ordering.
type Store interface {
	// List returns all products ordered ascending by business id.
	List(ctx context.Context) ([]domain.Product, error)
	// Get fetches a single document by its opaque id.
	Get(ctx context.Context, docID string) (*domain.Product, error)
	// Add assigns the DocID, the next business id (max existing + 1,
	// starting at 1) and the creation timestamp, then persists the document.
	Add(ctx context.Context, p *domain.Product) error
	// Update applies a partial update to the document's mutable fields and
	// stamps the update timestamp. The business id is never changed.
	Update(ctx context.Context, docID string, fields map[string]interface{}) error
	// Delete removes the document.
	Delete(ctx context.Context, docID string) error
}

// LoadProducts is the fail-soft catalog loader: on any store error it logs
// the error and returns an empty list alongside the error so the caller can
// surface a user-visible alert without breaking the page. No retry.
func LoadProducts(ctx context.Context, s Store) ([]domain.Product, error) {
	products, err := s.List(ctx)
	if err != nil {
		zap.L().Error("catalog: failed to load products", zap.Error(err))
		return []domain.Product{}, err
	}
	return products, nil
}

// SortForDisplay orders products for the storefront grid: featured items
// first, then ascending by business id. The sort is stable so equal-featured
// items keep their id order.
func SortForDisplay(products []domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].Featured != products[j].Featured {
			return products[i].Featured
		}
		return products[i].ID < products[j].ID
	})
}

// Categories returns the distinct category slugs present, in first-seen
// order, for building the storefront filter buttons.
func Categories(products []domain.Product) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	return cats
}
