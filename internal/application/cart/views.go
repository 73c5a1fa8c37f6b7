package cart

import (
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/pkg/money"
)

func itemView(it entity.CartItem, phase Phase) dto.CartItemView {
	v := dto.CartItemView{
		ID:                 it.ID,
		ProductID:          it.Product.ID,
		Nombre:             it.Product.Name,
		ImagenURL:          it.Product.ImageURL,
		Precio:             money.Fixed(it.Product.Price),
		Cantidad:           it.DisplayQuantity(),
		CantidadConfirmada: it.Quantity,
		Subtotal:           money.Fixed(it.Subtotal()),
		Updating:           it.Updating,
		Deleting:           it.Deleting,
		Estado:             phase.String(),
	}
	if it.Product.Stock != entity.UnknownStock {
		s := it.Product.Stock
		v.Stock = &s
	}
	return v
}

func noticeView(n *Notice) *dto.NoticeView {
	if n == nil {
		return nil
	}
	v := &dto.NoticeView{
		Tipo:       string(n.Kind),
		Titulo:     n.Title,
		Mensaje:    n.Message,
		Bloqueante: n.Blocking,
	}
	if !n.Until.IsZero() {
		until := n.Until
		v.Hasta = &until
	}
	return v
}
