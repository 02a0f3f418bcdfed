package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/domain"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/medusa"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/internal/store"
	apperrors "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/errors"
	"github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/pagination"
)

// CatalogBackend is the subset of the commerce backend the catalog service
// reads from.
type CatalogBackend interface {
	ListProducts(ctx context.Context, params medusa.ListProductsParams) ([]medusa.Product, int, error)
	RetrieveProduct(ctx context.Context, id string) (*medusa.Product, error)
}

// CatalogService proxies product browsing and search to the backend,
// scoping listings to the session's region so prices come back in the
// session's currency.
type CatalogService struct {
	backend CatalogBackend
	store   store.SessionStore
	logger  *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(backend CatalogBackend, st store.SessionStore, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		backend: backend,
		store:   st,
		logger:  logger,
	}
}

// List returns a page of products, optionally scoped to a category. The
// synthetic all-products category lists everything.
func (s *CatalogService) List(ctx context.Context, sessionID, categoryID string, params pagination.Params) (pagination.Result[domain.ProductView], error) {
	if categoryID == domain.AllProductsID {
		categoryID = ""
	}

	listParams := medusa.ListProductsParams{
		CategoryID: categoryID,
		RegionID:   s.regionID(ctx, sessionID),
		Limit:      params.PerPage,
		Offset:     params.Offset,
	}

	products, count, err := s.backend.ListProducts(ctx, listParams)
	if err != nil {
		return pagination.Result[domain.ProductView]{}, fmt.Errorf("list products: %w", err)
	}

	return pagination.NewResult(viewsOf(products), count, params), nil
}

// Search returns a page of products matching the free-text query.
func (s *CatalogService) Search(ctx context.Context, sessionID, query string, params pagination.Params) (pagination.Result[domain.ProductView], error) {
	if query == "" {
		return pagination.Result[domain.ProductView]{}, apperrors.InvalidInput("search query is required")
	}

	listParams := medusa.ListProductsParams{
		Query:    query,
		RegionID: s.regionID(ctx, sessionID),
		Limit:    params.PerPage,
		Offset:   params.Offset,
	}

	products, count, err := s.backend.ListProducts(ctx, listParams)
	if err != nil {
		return pagination.Result[domain.ProductView]{}, fmt.Errorf("search products: %w", err)
	}

	return pagination.NewResult(viewsOf(products), count, params), nil
}

// ByHandle fetches a single product by its URL handle.
func (s *CatalogService) ByHandle(ctx context.Context, sessionID, handle string) (*domain.ProductView, error) {
	if handle == "" {
		return nil, apperrors.InvalidInput("product handle is required")
	}

	products, _, err := s.backend.ListProducts(ctx, medusa.ListProductsParams{
		Handle:   handle,
		RegionID: s.regionID(ctx, sessionID),
		Limit:    1,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve product by handle: %w", err)
	}
	if len(products) == 0 {
		return nil, apperrors.NotFound("product", handle)
	}

	view := domain.NewProductView(products[0])
	return &view, nil
}

// ByID fetches a single product by its backend ID.
func (s *CatalogService) ByID(ctx context.Context, id string) (*domain.ProductView, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.backend.RetrieveProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieve product: %w", err)
	}

	view := domain.NewProductView(*product)
	return &view, nil
}

// regionID returns the session's selected region ID, or "" when the
// session has none. Listings still work unscoped; they just lack
// region-specific pricing.
func (s *CatalogService) regionID(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}
	region, err := s.store.Region(ctx, sessionID)
	if err != nil || region == nil {
		return ""
	}
	return region.Code
}

func viewsOf(products []medusa.Product) []domain.ProductView {
	views := make([]domain.ProductView, len(products))
	for i, p := range products {
		views[i] = domain.NewProductView(p)
	}
	return views
}
