package models

import "time"

type Book struct {
	ID             int64
	ISBN           string
	Name           string
	AuthorFullName string
	Stock          int64
	Price          float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
