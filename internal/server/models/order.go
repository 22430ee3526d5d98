package models

import "time"

type Order struct {
	ID        int64
	UserID    int64
	Items     []OrderItem
	CreatedAt time.Time
}

// OrderItem records one book position within an order. Price is the unit
// price captured at purchase time; later book price changes do not affect
// already placed orders.
type OrderItem struct {
	ID     int64
	BookID int64
	Amount int64
	Price  float64
}

// OrderReport is one aggregated statistics row: order totals for a
// calendar month.
type OrderReport struct {
	Month           string
	Year            int
	TotalOrderCount int64
	TotalBookCount  int64
	TotalPrice      float64
}
