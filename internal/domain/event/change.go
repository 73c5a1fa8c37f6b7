// Package event define las notificaciones de cambio del carrito que se difunden entre superficies.
package event

import "fmt"

// Kind variante del evento.
type Kind int

const (
	// KindRefresh exige recargar el carrito completo.
	KindRefresh Kind = iota + 1
	// KindItemUpdated parchea la cantidad de un ítem en sitio.
	KindItemUpdated
)

func (k Kind) String() string {
	switch k {
	case KindRefresh:
		return "refresh"
	case KindItemUpdated:
		return "item-updated"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ChangeEvent notificación de cambio. Origin identifica la superficie que provocó la escritura
// ("" si no se conoce) para que un observador pueda ignorar su propio eco.
type ChangeEvent struct {
	Kind     Kind
	ItemID   int64
	Quantity int
	Origin   string
}

// Refresh construye un evento de recarga completa.
func Refresh(origin string) ChangeEvent {
	return ChangeEvent{Kind: KindRefresh, Origin: origin}
}

// ItemUpdated construye un parche de cantidad.
func ItemUpdated(origin string, itemID int64, quantity int) ChangeEvent {
	return ChangeEvent{Kind: KindItemUpdated, ItemID: itemID, Quantity: quantity, Origin: origin}
}
