package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/lot-costing-api/internal/application/dto"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
)

// TieringUseCase clasifica SKUs según se vendan, se consuman o ambas.
type TieringUseCase struct {
	repos Repositories
}

// NewTieringUseCase construye el caso de uso.
func NewTieringUseCase(repos Repositories) *TieringUseCase {
	return &TieringUseCase{repos: repos}
}

// ClassifySkus clasifica los SKUs dados, o todo el catálogo si ids está vacío.
func (uc *TieringUseCase) ClassifySkus(ctx context.Context, ids []string) ([]dto.TierDTO, error) {
	var (
		skus []entity.SKU
		err  error
	)
	if ids = distinct(ids); len(ids) == 0 {
		skus, err = uc.repos.SKUs.List(ctx)
	} else {
		skus, err = uc.repos.SKUs.ListByIDs(ctx, ids)
	}
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	if len(skus) == 0 {
		return []dto.TierDTO{}, nil
	}

	skuIDs := make([]string, 0, len(skus))
	refs := make([]string, 0, len(skus))
	for _, s := range skus {
		skuIDs = append(skuIDs, s.ID)
		refs = append(refs, s.ID)
		refs = append(refs, s.Variances...)
	}

	since, err := effectiveSince(ctx, uc.repos, nil)
	if err != nil {
		return nil, err
	}
	src, err := fetchSources(ctx, uc.repos, skuIDs, refs, since)
	if err != nil {
		return nil, err
	}

	tiers := domaininv.ClassifySKUs(skus, src, since)
	out := make([]dto.TierDTO, 0, len(skus))
	for _, s := range skus {
		t := tiers[s.ID]
		out = append(out, dto.TierDTO{SKU: s.ID, Tier: int(t), Label: t.Label()})
	}
	return out, nil
}
