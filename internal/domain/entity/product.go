package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnknownStock indica que el backend no informó existencias; no se acota por arriba.
const UnknownStock = -1

// ProductImage imagen de un producto (Orden define la posición en la galería).
type ProductImage struct {
	ID          int64
	URL         string
	Order       int
	Description string
}

// Product resumen de producto tal como aparece en el catálogo y dentro del carrito.
type Product struct {
	ID        int64
	Name      string
	Price     decimal.Decimal
	Stock     int // UnknownStock si el backend no lo envía
	Brand     string
	ImageURL  string
	AvgRating float64
}

// Review reseña de un usuario sobre un producto.
type Review struct {
	ID        int64
	ProductID int64
	UserID    string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ProductDetail ficha completa usada en el detalle y en el comparador.
type ProductDetail struct {
	Product
	Description string
	Processor   string
	RAM         string
	Storage     string
	Screen      string
	GPU         string
	Weight      string
	Images      []ProductImage
	Reviews     []Review
	CreatedAt   time.Time
}

// MainImage devuelve la URL de la primera imagen, o "" si no hay.
func (p ProductDetail) MainImage() string {
	if len(p.Images) == 0 {
		return p.ImageURL
	}
	return p.Images[0].URL
}

// ProductPage página de resultados del catálogo (paginación del backend, base 0).
type ProductPage struct {
	Content       []Product
	TotalPages    int
	TotalElements int64
	Size          int
	Number        int
	Empty         bool
}
