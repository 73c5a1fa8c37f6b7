package cart

import (
	"context"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/event"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// RemoteClient envoltura fina sobre los endpoints del carrito que además publica los cambios
// en el Broadcaster y mantiene la instantánea en caché.
type RemoteClient struct {
	repo    repository.CartRepository
	cache   repository.CartSnapshotCache
	bus     *Broadcaster
	userID  string
	timeout time.Duration
	log     *logger.Logger
}

// RemoteConfig parámetros del cliente remoto.
type RemoteConfig struct {
	UserID  string
	Timeout time.Duration // 0 = sin timeout propio
}

// NewRemoteClient construye el cliente. cache puede ser nil.
func NewRemoteClient(repo repository.CartRepository, cache repository.CartSnapshotCache, bus *Broadcaster, cfg RemoteConfig, log *logger.Logger) *RemoteClient {
	if log == nil {
		log = logger.Nop()
	}
	return &RemoteClient{
		repo:    repo,
		cache:   cache,
		bus:     bus,
		userID:  cfg.UserID,
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Changes canal de difusión de cambios del carrito.
func (r *RemoteClient) Changes() *Broadcaster {
	return r.bus
}

// GetCart obtiene el carrito autoritativo y actualiza la instantánea.
func (r *RemoteClient) GetCart(ctx context.Context) (*entity.Cart, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	c, err := r.repo.GetCart(ctx, r.userID)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		if err := r.cache.Set(ctx, c); err != nil {
			r.log.Warn().Err(err).Msg("guardar instantánea del carrito")
		}
	}
	return c, nil
}

// CachedCart última instantánea conocida, o nil.
func (r *RemoteClient) CachedCart(ctx context.Context) *entity.Cart {
	if r.cache == nil {
		return nil
	}
	c, err := r.cache.Get(ctx)
	if err != nil {
		r.log.Debug().Err(err).Msg("leer instantánea del carrito")
		return nil
	}
	return c
}

// UpdateItemQuantity envía la cantidad y devuelve la confirmada por el servidor.
// Si la respuesta no trae el ítem se asume la cantidad pedida.
func (r *RemoteClient) UpdateItemQuantity(ctx context.Context, origin string, itemID int64, quantity int) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	c, err := r.repo.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return 0, err
	}
	confirmed := quantity
	if c != nil {
		if i := c.IndexOf(itemID); i >= 0 {
			confirmed = c.Items[i].Quantity
		}
	}
	r.bus.Publish(event.ItemUpdated(origin, itemID, confirmed))
	return confirmed, nil
}

// RemoveItem elimina el ítem en el servidor y publica Refresh.
func (r *RemoteClient) RemoveItem(ctx context.Context, origin string, itemID int64) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	if err := r.repo.RemoveItem(ctx, itemID); err != nil {
		return err
	}
	r.bus.Publish(event.Refresh(origin))
	return nil
}

// AddItem agrega un producto al carrito del usuario y publica Refresh.
func (r *RemoteClient) AddItem(ctx context.Context, origin string, productID int64, quantity int) (*entity.Cart, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	c, err := r.repo.AddItem(ctx, r.userID, productID, entity.ClampQuantity(quantity, entity.UnknownStock))
	if err != nil {
		return nil, err
	}
	r.bus.Publish(event.Refresh(origin))
	return c, nil
}

func (r *RemoteClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.timeout)
}
