package domain

const lowStockBelow = 5

// Availability summarizes a stock level for shoppers.
type Availability struct {
	Status string `json:"status"`
	Qty    int    `json:"qty"`
}

// AvailabilityOf converts qty to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func AvailabilityOf(qty int) Availability {
	status := "OUT_OF_STOCK"
	switch {
	case qty >= lowStockBelow:
		status = "IN_STOCK"
	case qty > 0:
		status = "LOW_STOCK"
	}
	return Availability{Status: status, Qty: qty}
}
