package inventory

import (
	"context"
	"fmt"
	"time"

	domaininv "github.com/jhoicas/lot-costing-api/internal/domain/inventory"
	"golang.org/x/sync/errgroup"
)

// effectiveSince combina la fecha pedida con el ajuste global "filtrar datos desde"; gana la más reciente.
func effectiveSince(ctx context.Context, repos Repositories, start *time.Time) (*time.Time, error) {
	var global *time.Time
	if repos.Settings != nil {
		var err error
		global, err = repos.Settings.FilterDataFrom(ctx)
		if err != nil {
			return nil, fmt.Errorf("filter data from: %w", err)
		}
	}
	switch {
	case start == nil || start.IsZero():
		return global, nil
	case global == nil || start.After(*global):
		return start, nil
	default:
		return global, nil
	}
}

// fetchSources trae en paralelo todas las fuentes de movimiento de los SKUs.
// webRefs incluye los IDs de SKU y de sus variantes.
func fetchSources(ctx context.Context, repos Repositories, skuIDs, webRefs []string, since *time.Time) (domaininv.Sources, error) {
	var src domaininv.Sources
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		src.Openings, err = repos.OpeningBalances.ListBySKUs(gctx, skuIDs, since)
		return wrap("opening balances", err)
	})
	g.Go(func() (err error) {
		src.PurchaseOrders, err = repos.PurchaseOrders.ListBySKUs(gctx, skuIDs, since)
		return wrap("purchase orders", err)
	})
	g.Go(func() (err error) {
		src.Jobs, err = repos.Manufacturing.ListBySKUs(gctx, skuIDs, since)
		return wrap("manufacturing", err)
	})
	g.Go(func() (err error) {
		src.SaleOrders, err = repos.SaleOrders.ListBySKUs(gctx, skuIDs, since)
		return wrap("sale orders", err)
	})
	g.Go(func() (err error) {
		src.Audits, err = repos.Audits.ListBySKUs(gctx, skuIDs, since)
		return wrap("audits", err)
	})
	g.Go(func() (err error) {
		src.WebOrders, err = repos.WebOrders.ListBySKUs(gctx, webRefs, since)
		return wrap("web orders", err)
	})

	if err := g.Wait(); err != nil {
		return domaininv.Sources{}, err
	}
	return src, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", what, err)
}
