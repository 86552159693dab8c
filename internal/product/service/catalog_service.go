package service

import (
	"context"
	"sort"

	"ristorante/internal/domain"
)

type Repository interface {
	FindProducts(ctx context.Context, category domain.Category) ([]domain.Product, error)
	FindCategories(ctx context.Context) ([]domain.Category, error)
	FindDoughTypes(ctx context.Context) ([]domain.DoughType, error)
	FindExtras(ctx context.Context) ([]domain.Extra, error)
}

type CatalogService struct {
	repo Repository
}

func NewService(repo Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	return s.repo.FindProducts(ctx, domain.Category(category))
}

// ListCategories returns the distinct categories in menu order. Categories
// outside the known menu sort last, alphabetically.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindCategories(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(categories, func(i, j int) bool {
		ri, rj := domain.MenuRank(categories[i]), domain.MenuRank(categories[j])
		if ri != rj {
			return ri < rj
		}
		return categories[i] < categories[j]
	})

	return categories, nil
}

func (s *CatalogService) ListDoughTypes(ctx context.Context) ([]domain.DoughType, error) {
	return s.repo.FindDoughTypes(ctx)
}

func (s *CatalogService) ListExtras(ctx context.Context) ([]domain.Extra, error) {
	return s.repo.FindExtras(ctx)
}
