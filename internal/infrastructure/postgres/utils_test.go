package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/lot-costing-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
)

func TestLotArrays(t *testing.T) {
	skus, lots := lotArrays([]repository.LotRef{{SKU: "A", LotNumber: "1"}, {SKU: "B", LotNumber: "2"}})
	assert.Equal(t, []string{"A", "B"}, skus)
	assert.Equal(t, []string{"1", "2"}, lots)
}

func TestSinceArg(t *testing.T) {
	assert.Nil(t, sinceArg(nil))
	assert.Nil(t, sinceArg(&time.Time{}))
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, d, sinceArg(&d))
}

func TestErrores(t *testing.T) {
	assert.True(t, isNoRows(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("otro")))
}

func TestParseSettingDate(t *testing.T) {
	d, err := parseSettingDate("2024-03-01")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = parseSettingDate("2024-03-01T10:00:00Z")
	assert.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = parseSettingDate("ayer")
	assert.Error(t, err)
}
