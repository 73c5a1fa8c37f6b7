package testutil

import (
	"context"
	"sync"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var (
	_ repository.UserRepository  = (*FakeUserRepository)(nil)
	_ repository.OrderRepository = (*FakeOrderRepository)(nil)
)

// FakeUserRepository usuarios en memoria.
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[string]entity.User
	Fail  error
}

// NewFakeUserRepository repositorio con los usuarios dados.
func NewFakeUserRepository(users ...entity.User) *FakeUserRepository {
	r := &FakeUserRepository{users: make(map[string]entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *FakeUserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *FakeUserRepository) Update(_ context.Context, id string, in entity.UserUpdate) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Fail != nil {
		return nil, r.Fail
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = *in.LastName
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	r.users[id] = u
	return &u, nil
}

// OrderCall orden pedida al backend simulado.
type OrderCall struct {
	UserID  string
	Address string
}

// FakeOrderRepository devuelve Order (o Fail) y registra las llamadas.
type FakeOrderRepository struct {
	mu    sync.Mutex
	calls []OrderCall
	Order *entity.Order
	Fail  error
}

func (r *FakeOrderRepository) CreateFromCart(_ context.Context, userID, shippingAddress string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, OrderCall{UserID: userID, Address: shippingAddress})
	if r.Fail != nil {
		return nil, r.Fail
	}
	if r.Order == nil {
		return nil, nil
	}
	o := *r.Order
	o.UserID = userID
	o.ShippingAddress = shippingAddress
	return &o, nil
}

// Calls órdenes pedidas.
func (r *FakeOrderRepository) Calls() []OrderCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]OrderCall(nil), r.calls...)
}
