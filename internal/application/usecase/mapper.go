package usecase

import (
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

func toProductResponse(p entity.Product) dto.ProductResponse {
	out := dto.ProductResponse{
		ID:               p.ID,
		Nombre:           p.Name,
		Precio:           p.Price,
		PrecioFormateado: money.Format(p.Price),
		Marca:            p.Brand,
		ImagenURL:        p.ImageURL,
		PromedioRating:   p.AvgRating,
	}
	if p.Stock != entity.UnknownStock {
		s := p.Stock
		out.Stock = &s
	}
	return out
}

func toProductPageResponse(pg *entity.ProductPage) *dto.ProductPageResponse {
	out := &dto.ProductPageResponse{
		Content:       make([]dto.ProductResponse, 0, len(pg.Content)),
		TotalPages:    pg.TotalPages,
		TotalElements: pg.TotalElements,
		Size:          pg.Size,
		Number:        pg.Number,
		Empty:         len(pg.Content) == 0,
	}
	for _, p := range pg.Content {
		out.Content = append(out.Content, toProductResponse(p))
	}
	return out
}

func toProductDetailResponse(d *entity.ProductDetail) dto.ProductDetailResponse {
	base := toProductResponse(d.Product)
	base.ImagenURL = d.MainImage()
	out := dto.ProductDetailResponse{
		ProductResponse: base,
		Descripcion:     d.Description,
		Procesador:      d.Processor,
		RAM:             d.RAM,
		Almacenamiento:  d.Storage,
		Pantalla:        d.Screen,
		GPU:             d.GPU,
		Peso:            d.Weight,
		Imagenes:        make([]dto.ProductImageResponse, 0, len(d.Images)),
		Resenas:         make([]dto.ReviewResponse, 0, len(d.Reviews)),
	}
	for _, img := range d.Images {
		out.Imagenes = append(out.Imagenes, dto.ProductImageResponse{ID: img.ID, URL: img.URL, Orden: img.Order, Descripcion: img.Description})
	}
	for _, r := range d.Reviews {
		out.Resenas = append(out.Resenas, dto.ReviewResponse{ID: r.ID, UserNombre: r.UserName, Rating: r.Rating, Comentario: r.Comment, CreatedAt: r.CreatedAt})
	}
	return out
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:             u.ID,
		Nombre:         u.FirstName,
		Apellido:       u.LastName,
		NombreCompleto: u.FullName(),
		Email:          u.Email,
		Direccion:      u.Address,
		Telefono:       u.Phone,
		Role:           u.Role,
	}
}
