package inventory

import (
	"fmt"
	"time"
)

// PurchaseLotNumber lote asignado a la línea index de una orden recibida: MM/DD/YYYY-.N
func PurchaseLotNumber(receivedAt time.Time, index int) string {
	return fmt.Sprintf("%s-.%d", receivedAt.Format("01/02/2006"), index)
}
