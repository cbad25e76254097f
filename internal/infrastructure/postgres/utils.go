package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
)

// isNoRows pgx.ErrNoRows se traduce a (nil, nil) en los Get/Find.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// lotArrays separa los pares en dos arreglos paralelos para unnest($1::text[], $2::text[]).
func lotArrays(lots []repository.LotRef) (skus, numbers []string) {
	skus = make([]string, 0, len(lots))
	numbers = make([]string, 0, len(lots))
	for _, l := range lots {
		skus = append(skus, l.SKU)
		numbers = append(numbers, l.LotNumber)
	}
	return skus, numbers
}

// sinceArg NULL cuando no hay filtro, para usar ($n::timestamptz IS NULL OR fecha >= $n).
func sinceArg(since *time.Time) any {
	if since == nil || since.IsZero() {
		return nil
	}
	return *since
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
