package dto

// PageRequest paginación del catálogo (base 0, como el backend).
type PageRequest struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// DefaultPage aplica valores por defecto: página 0, 12 productos, máximo 100.
func (p *PageRequest) DefaultPage() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 12
	}
	if p.Size > 100 {
		p.Size = 100
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
