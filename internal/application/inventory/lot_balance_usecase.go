package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/lot-costing-api/internal/domain"
	"github.com/jhoicas/lot-costing-api/internal/domain/entity"
	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
)

// LotBalanceUseCase reconstruye el saldo por lote a partir de los documentos; nunca lo persiste.
type LotBalanceUseCase struct {
	repos Repositories
}

// NewLotBalanceUseCase construye el caso de uso.
func NewLotBalanceUseCase(repos Repositories) *LotBalanceUseCase {
	return &LotBalanceUseCase{repos: repos}
}

// GetAvailableLots lotes con saldo positivo del SKU. order: "fifo" (por defecto) o "balance".
// Un SKU fuera del catálogo se agrega por su ID crudo.
func (uc *LotBalanceUseCase) GetAvailableLots(ctx context.Context, skuID, order string) ([]entity.LotBalance, error) {
	if skuID == "" {
		return nil, domain.ErrInvalidInput
	}
	if order != domaininv.LotOrderBalance {
		order = domaininv.LotOrderFIFO
	}
	sku, err := uc.repos.SKUs.GetByID(ctx, skuID)
	if err != nil {
		return nil, fmt.Errorf("get sku: %w", err)
	}
	matcher := domaininv.MatcherFor(sku, skuID)

	since, err := effectiveSince(ctx, uc.repos, nil)
	if err != nil {
		return nil, err
	}
	src, err := fetchSources(ctx, uc.repos, []string{matcher.ID}, webRefs(matcher), since)
	if err != nil {
		return nil, err
	}
	return domaininv.AggregateLotBalances(matcher, src, since, order), nil
}

// GetAvailableLotsForSkus versión masiva en orden FIFO: una sola lectura por fuente para todos los SKUs.
func (uc *LotBalanceUseCase) GetAvailableLotsForSkus(ctx context.Context, skuIDs []string) (map[string][]entity.LotBalance, error) {
	ids := distinct(skuIDs)
	if len(ids) == 0 {
		return map[string][]entity.LotBalance{}, nil
	}
	skus, err := uc.repos.SKUs.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list skus: %w", err)
	}
	byID := make(map[string]*entity.SKU, len(skus))
	for i := range skus {
		byID[skus[i].ID] = &skus[i]
	}

	matchers := make([]domaininv.SkuMatcher, 0, len(ids))
	refs := make([]string, 0, len(ids))
	for _, id := range ids {
		m := domaininv.MatcherFor(byID[id], id)
		matchers = append(matchers, m)
		refs = append(refs, webRefs(m)...)
	}

	since, err := effectiveSince(ctx, uc.repos, nil)
	if err != nil {
		return nil, err
	}
	src, err := fetchSources(ctx, uc.repos, ids, refs, since)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]entity.LotBalance, len(ids))
	for _, m := range matchers {
		out[m.ID] = domaininv.AggregateLotBalances(m, src, since, domaininv.LotOrderFIFO)
	}
	return out, nil
}

func webRefs(m domaininv.SkuMatcher) []string {
	return append([]string{m.ID}, m.Variances...)
}

func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
