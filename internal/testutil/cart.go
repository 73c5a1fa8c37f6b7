package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var (
	_ repository.CartRepository    = (*FakeCartRepository)(nil)
	_ repository.CartSnapshotCache = (*SnapshotCache)(nil)
)

// Item construye una línea de carrito con precio en texto ("1299.99").
func Item(id int64, price string, qty, stock int) entity.CartItem {
	return entity.CartItem{
		ID:       id,
		Quantity: qty,
		Product: entity.Product{
			ID:    id * 100,
			Name:  fmt.Sprintf("Laptop %d", id),
			Price: decimal.RequireFromString(price),
			Stock: stock,
		},
	}
}

// QuantityCall escritura de cantidad recibida por el backend simulado.
type QuantityCall struct {
	ItemID   int64
	Quantity int
}

// FakeCartRepository backend del carrito en memoria. Seguro para uso concurrente.
type FakeCartRepository struct {
	mu         sync.Mutex
	cart       entity.Cart
	updates    []QuantityCall
	removes    []int64
	getCalls   int
	nextItemID int64

	FailGet    error
	FailUpdate error
	FailRemove error
}

// NewFakeCartRepository backend con los ítems dados.
func NewFakeCartRepository(items ...entity.CartItem) *FakeCartRepository {
	r := &FakeCartRepository{nextItemID: 1000}
	r.cart.Items = append(r.cart.Items, items...)
	r.cart.Recalculate()
	return r
}

func (r *FakeCartRepository) GetCart(_ context.Context, userID string) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.FailGet != nil {
		return nil, r.FailGet
	}
	c := r.cart.Clone()
	c.UserID = userID
	return &c, nil
}

func (r *FakeCartRepository) UpdateItemQuantity(_ context.Context, itemID int64, quantity int) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, QuantityCall{ItemID: itemID, Quantity: quantity})
	if r.FailUpdate != nil {
		return nil, r.FailUpdate
	}
	i := r.cart.IndexOf(itemID)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	r.cart.Items[i].Quantity = quantity
	r.cart.Recalculate()
	c := r.cart.Clone()
	return &c, nil
}

func (r *FakeCartRepository) RemoveItem(_ context.Context, itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removes = append(r.removes, itemID)
	if r.FailRemove != nil {
		return r.FailRemove
	}
	i := r.cart.IndexOf(itemID)
	if i < 0 {
		return domain.ErrNotFound
	}
	r.cart.Items = append(r.cart.Items[:i], r.cart.Items[i+1:]...)
	r.cart.Recalculate()
	return nil
}

func (r *FakeCartRepository) AddItem(_ context.Context, _ string, productID int64, quantity int) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextItemID++
	r.cart.Items = append(r.cart.Items, entity.CartItem{
		ID:       r.nextItemID,
		Quantity: quantity,
		Product: entity.Product{
			ID:    productID,
			Name:  fmt.Sprintf("Producto %d", productID),
			Price: decimal.NewFromInt(100),
			Stock: 10,
		},
	})
	r.cart.Recalculate()
	c := r.cart.Clone()
	return &c, nil
}

// SetStock cambia el stock del producto de un ítem (stock que bajó tras la carga).
func (r *FakeCartRepository) SetStock(itemID int64, stock int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.cart.IndexOf(itemID); i >= 0 {
		r.cart.Items[i].Product.Stock = stock
	}
}

// Updates escrituras de cantidad recibidas.
func (r *FakeCartRepository) Updates() []QuantityCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]QuantityCall(nil), r.updates...)
}

// Removes borrados recibidos.
func (r *FakeCartRepository) Removes() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.removes...)
}

// GetCalls número de lecturas del carrito.
func (r *FakeCartRepository) GetCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getCalls
}

// Snapshot copia del carrito del backend.
func (r *FakeCartRepository) Snapshot() entity.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cart.Clone()
}

// SnapshotCache caché de instantáneas en memoria.
type SnapshotCache struct {
	mu   sync.Mutex
	cart *entity.Cart
}

func (c *SnapshotCache) Get(context.Context) (*entity.Cart, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cart == nil {
		return nil, nil
	}
	out := c.cart.Clone()
	return &out, nil
}

func (c *SnapshotCache) Set(_ context.Context, cart *entity.Cart) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cart == nil {
		c.cart = nil
		return nil
	}
	cp := cart.Clone()
	c.cart = &cp
	return nil
}
