package repository

// LotRef par (sku, lote) para consultas masivas.
type LotRef struct {
	SKU       string
	LotNumber string
}
