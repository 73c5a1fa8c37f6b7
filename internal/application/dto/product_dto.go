package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductResponse producto del catálogo.
type ProductResponse struct {
	ID               int64           `json:"id"`
	Nombre           string          `json:"nombre"`
	Precio           decimal.Decimal `json:"precio"`
	PrecioFormateado string          `json:"precioFormateado"`
	Stock            *int            `json:"stock"`
	Marca            string          `json:"marca"`
	ImagenURL        string          `json:"imagenUrl,omitempty"`
	PromedioRating   float64         `json:"promedioRating"`
}

// ProductPageResponse página del catálogo (base 0).
type ProductPageResponse struct {
	Content       []ProductResponse `json:"content"`
	TotalPages    int               `json:"totalPages"`
	TotalElements int64             `json:"totalElements"`
	Size          int               `json:"size"`
	Number        int               `json:"number"`
	Empty         bool              `json:"empty"`
}

// ProductImageResponse imagen de la galería.
type ProductImageResponse struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Orden       int    `json:"orden"`
	Descripcion string `json:"descripcion,omitempty"`
}

// ReviewResponse reseña de un producto.
type ReviewResponse struct {
	ID         int64     `json:"id"`
	UserNombre string    `json:"userNombre"`
	Rating     int       `json:"rating"`
	Comentario string    `json:"comentario"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ProductDetailResponse ficha completa del producto.
type ProductDetailResponse struct {
	ProductResponse
	Descripcion    string                 `json:"descripcion"`
	Procesador     string                 `json:"procesador"`
	RAM            string                 `json:"ram"`
	Almacenamiento string                 `json:"almacenamiento"`
	Pantalla       string                 `json:"pantalla"`
	GPU            string                 `json:"gpu"`
	Peso           string                 `json:"peso"`
	Imagenes       []ProductImageResponse `json:"imagenes"`
	Resenas        []ReviewResponse       `json:"resenas"`
}

// CompareRow fila de la tabla de comparación ("-" si el dato no existe).
type CompareRow struct {
	Campo string `json:"campo"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// CompareResponse comparación de dos laptops.
type CompareResponse struct {
	A     ProductDetailResponse `json:"a"`
	B     ProductDetailResponse `json:"b"`
	Filas []CompareRow          `json:"filas"`
}
