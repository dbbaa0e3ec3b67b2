package models

import "time"

// Product represents a product in the catalog.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null;default:''"`
	Image       string    `json:"image" gorm:"type:varchar(1024);default:''"`
	Price       float64   `json:"price" gorm:"type:decimal(10,2);not null"`
	Active      *bool     `json:"active" gorm:"not null;default:true"` // pointer so an explicit false survives the column default
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductInput is the whitelisted set of fields a client may send for a product.
// A nil field was absent from the request body.
type ProductInput struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Price       *float64 `json:"price" validate:"required"`
	Active      *bool    `json:"active"`
	Stock       *int     `json:"stock"`
}

// NewProduct builds a product from the fields present in the input.
func (in ProductInput) NewProduct() *Product {
	p := &Product{}
	in.ApplyTo(p)
	return p
}

// ApplyTo copies every present field onto p, including zero values.
func (in ProductInput) ApplyTo(p *Product) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Active != nil {
		active := *in.Active
		p.Active = &active
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
}
