package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
)

// flexString acepta string, número o null (ram, almacenamiento y peso llegan como número o texto).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// localTime fecha del backend: ISO-8601 con o sin zona (LocalDateTime), o null.
type localTime struct{ time.Time }

var localLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *localTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range localLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

type imageDTO struct {
	ID          int64  `json:"id"`
	URL         string `json:"url"`
	Orden       int    `json:"orden"`
	Descripcion string `json:"descripcion"`
}

type brandDTO struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

type productListDTO struct {
	ID              int64           `json:"id"`
	Nombre          string          `json:"nombre"`
	Precio          decimal.Decimal `json:"precio"`
	Stock           *int            `json:"stock"`
	Marca           string          `json:"marca"`
	Brand           *brandDTO       `json:"brand"`
	ImagenPrincipal *imageDTO       `json:"imagenPrincipal"`
	ImagenURL       string          `json:"imagenUrl"`
	PromedioRating  *float64        `json:"promedioRating"`
}

type reviewDTO struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"productId"`
	UserID     string    `json:"userId"`
	UserNombre string    `json:"userNombre"`
	Rating     int       `json:"rating"`
	Comentario string    `json:"comentario"`
	CreatedAt  localTime `json:"createdAt"`
}

type productDetailDTO struct {
	productListDTO
	Descripcion    string      `json:"descripcion"`
	Procesador     string      `json:"procesador"`
	RAM            flexString  `json:"ram"`
	Almacenamiento flexString  `json:"almacenamiento"`
	Pantalla       string      `json:"pantalla"`
	GPU            string      `json:"gpu"`
	Peso           flexString  `json:"peso"`
	Imagenes       []imageDTO  `json:"imagenes"`
	Resenas        []reviewDTO `json:"resenas"`
	CreatedAt      localTime   `json:"createdAt"`
}

type pageDTO struct {
	Content       []productListDTO `json:"content"`
	TotalPages    int              `json:"totalPages"`
	TotalElements int64            `json:"totalElements"`
	Size          int              `json:"size"`
	Number        int              `json:"number"`
	Empty         bool             `json:"empty"`
}

type cartItemDTO struct {
	ID       int64          `json:"id"`
	Product  productListDTO `json:"product"`
	Cantidad int            `json:"cantidad"`
}

type cartDTO struct {
	ID     int64            `json:"id"`
	UserID string           `json:"userId"`
	Items  []cartItemDTO    `json:"items"`
	Total  *decimal.Decimal `json:"total"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Cantidad  int   `json:"cantidad"`
}

type quantityRequest struct {
	Cantidad int `json:"cantidad"`
}

type userDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Role      string `json:"role"`
}

type userUpdateRequest struct {
	Nombre    *string `json:"nombre,omitempty"`
	Apellido  *string `json:"apellido,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
}

type paymentDTO struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	StripePaymentID string          `json:"stripePaymentId"`
	ClientSecret    string          `json:"clientSecret"`
	Monto           decimal.Decimal `json:"monto"`
	Estado          string          `json:"estado"`
	CreatedAt       localTime       `json:"createdAt"`
}

type orderItemDTO struct {
	ID             int64           `json:"id"`
	Product        productListDTO  `json:"product"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precioUnitario"`
}

type orderDTO struct {
	ID             int64           `json:"id"`
	UserID         string          `json:"userId"`
	Total          decimal.Decimal `json:"total"`
	Estado         string          `json:"estado"`
	DireccionEnvio string          `json:"direccionEnvio"`
	ExpiresAt      *localTime      `json:"expiresAt"`
	Items          []orderItemDTO  `json:"items"`
	Payment        *paymentDTO     `json:"payment"`
	CreatedAt      localTime       `json:"createdAt"`
}

type createOrderRequest struct {
	DireccionEnvio string `json:"direccionEnvio"`
}

func (p productListDTO) toEntity() entity.Product {
	out := entity.Product{
		ID:       p.ID,
		Name:     p.Nombre,
		Price:    p.Precio,
		Stock:    entity.UnknownStock,
		Brand:    p.Marca,
		ImageURL: p.ImagenURL,
	}
	if p.Stock != nil {
		out.Stock = *p.Stock
	}
	if out.Brand == "" && p.Brand != nil {
		out.Brand = p.Brand.Nombre
	}
	if p.ImagenPrincipal != nil && p.ImagenPrincipal.URL != "" {
		out.ImageURL = p.ImagenPrincipal.URL
	}
	if p.PromedioRating != nil {
		out.AvgRating = *p.PromedioRating
	}
	return out
}

func (d productDetailDTO) toEntity() *entity.ProductDetail {
	out := &entity.ProductDetail{
		Product:     d.productListDTO.toEntity(),
		Description: d.Descripcion,
		Processor:   d.Procesador,
		RAM:         string(d.RAM),
		Storage:     string(d.Almacenamiento),
		Screen:      d.Pantalla,
		GPU:         d.GPU,
		Weight:      string(d.Peso),
		CreatedAt:   d.CreatedAt.Time,
	}
	for _, img := range d.Imagenes {
		out.Images = append(out.Images, entity.ProductImage{
			ID:          img.ID,
			URL:         img.URL,
			Order:       img.Orden,
			Description: img.Descripcion,
		})
	}
	if out.ImageURL == "" && len(out.Images) > 0 {
		out.ImageURL = out.Images[0].URL
	}
	for _, r := range d.Resenas {
		out.Reviews = append(out.Reviews, entity.Review{
			ID:        r.ID,
			ProductID: r.ProductID,
			UserID:    r.UserID,
			UserName:  r.UserNombre,
			Rating:    r.Rating,
			Comment:   r.Comentario,
			CreatedAt: r.CreatedAt.Time,
		})
	}
	return out
}

func (p pageDTO) toEntity() *entity.ProductPage {
	out := &entity.ProductPage{
		Content:       make([]entity.Product, 0, len(p.Content)),
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		Size:          p.Size,
		Number:        p.Number,
		Empty:         p.Empty || len(p.Content) == 0,
	}
	for _, prod := range p.Content {
		out.Content = append(out.Content, prod.toEntity())
	}
	return out
}

// toEntity el total del servidor solo se usa si viene; si no, se calcula localmente.
func (c cartDTO) toEntity() *entity.Cart {
	out := &entity.Cart{
		ID:     c.ID,
		UserID: c.UserID,
		Items:  make([]entity.CartItem, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		out.Items = append(out.Items, entity.CartItem{
			ID:       it.ID,
			Product:  it.Product.toEntity(),
			Quantity: it.Cantidad,
		})
	}
	if c.Total != nil {
		out.Total = *c.Total
	} else {
		out.Recalculate()
	}
	return out
}

func (u userDTO) toEntity() *entity.User {
	return &entity.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.Nombre,
		LastName:  u.Apellido,
		Address:   u.Direccion,
		Phone:     u.Telefono,
		Role:      u.Role,
	}
}

func (o orderDTO) toEntity() *entity.Order {
	out := &entity.Order{
		ID:              o.ID,
		UserID:          o.UserID,
		Total:           o.Total,
		Status:          strings.ToLower(o.Estado),
		ShippingAddress: o.DireccionEnvio,
		CreatedAt:       o.CreatedAt.Time,
	}
	if o.ExpiresAt != nil && !o.ExpiresAt.IsZero() {
		exp := o.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, entity.OrderItem{
			ID:        it.ID,
			Product:   it.Product.toEntity(),
			Quantity:  it.Cantidad,
			UnitPrice: it.PrecioUnitario,
		})
	}
	if o.Payment != nil {
		out.Payment = &entity.Payment{
			ID:                o.Payment.ID,
			OrderID:           o.Payment.OrderID,
			ProviderPaymentID: o.Payment.StripePaymentID,
			ClientSecret:      o.Payment.ClientSecret,
			Amount:            o.Payment.Monto,
			Status:            strings.ToLower(o.Payment.Estado),
			CreatedAt:         o.Payment.CreatedAt.Time,
		}
	}
	return out
}
