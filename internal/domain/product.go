package domain

import "github.com/shopspring/decimal"

// Product is a row of the catalog. Code and ID never change after creation.
type Product struct {
	ID          int64           `json:"id" db:"id"`
	Code        string          `json:"code" db:"codigo"`
	Description string          `json:"description" db:"descripcion"`
	ImageRef    string          `json:"image_ref" db:"foto"`
	Price       decimal.Decimal `json:"price" db:"precio"`
}
