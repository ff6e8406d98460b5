package domain

import "time"

type Money struct {
	Currency string
	Amount   int64
}

// Product is the catalog entity as the order core sees it. The catalog
// service owns everything here except Stock, which is mutated only through
// the inventory ledger.
type Product struct {
	ID        string
	Name      string
	Price     Money
	Image     string
	Stock     int32
	CreatedAt time.Time
	UpdatedAt time.Time
}
