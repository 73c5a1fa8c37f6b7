package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo implementación del puerto SessionRepository sobre PostgreSQL. Pasar pool o tx (Querier).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador de persistencia de sesiones.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// snapshotItem forma persistida de un ítem. Los flags optimistas no se guardan.
type snapshotItem struct {
	ID        int64           `json:"id"`
	Quantity  int             `json:"quantity"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Brand     string          `json:"brand,omitempty"`
	ImageURL  string          `json:"image_url,omitempty"`
}

type snapshot struct {
	CartID int64          `json:"cart_id,omitempty"`
	UserID string         `json:"user_id,omitempty"`
	Items  []snapshotItem `json:"items"`
}

func encodeSnapshot(c *entity.Cart) ([]byte, decimal.Decimal, error) {
	s := snapshot{CartID: c.ID, UserID: c.UserID, Items: make([]snapshotItem, 0, len(c.Items))}
	for _, it := range c.Items {
		s.Items = append(s.Items, snapshotItem{
			ID:        it.ID,
			Quantity:  it.Quantity,
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Stock:     it.Product.Stock,
			Brand:     it.Product.Brand,
			ImageURL:  it.Product.ImageURL,
		})
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return raw, entity.ComputeTotal(c.Items), nil
}

func decodeSnapshot(raw []byte) (*entity.Cart, error) {
	var s snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	c := &entity.Cart{ID: s.CartID, UserID: s.UserID, Items: make([]entity.CartItem, 0, len(s.Items))}
	for _, it := range s.Items {
		c.Items = append(c.Items, entity.CartItem{
			ID:       it.ID,
			Quantity: it.Quantity,
			Product: entity.Product{
				ID:       it.ProductID,
				Name:     it.Name,
				Price:    it.Price,
				Stock:    it.Stock,
				Brand:    it.Brand,
				ImageURL: it.ImageURL,
			},
		})
	}
	c.Recalculate()
	return c, nil
}

// Create persiste una sesión nueva.
func (r *SessionRepo) Create(ctx context.Context, s *repository.Session) error {
	var (
		raw   []byte
		total *decimal.Decimal
	)
	if s.Cart != nil {
		b, t, err := encodeSnapshot(s.Cart)
		if err != nil {
			return fmt.Errorf("serializar carrito: %w", err)
		}
		raw, total = b, &t
	}
	query := `
		INSERT INTO sessions (id, user_id, cart_snapshot, cart_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, s.ID, s.UserID, raw, total, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID obtiene la sesión; nil, nil si no existe o el id no es un UUID.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*repository.Session, error) {
	query := `
		SELECT id::text, user_id, cart_snapshot, created_at, updated_at
		FROM sessions WHERE id = $1`
	var (
		s   repository.Session
		raw []byte
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.UserID, &raw, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if len(raw) > 0 {
		c, err := decodeSnapshot(raw)
		if err != nil {
			return nil, fmt.Errorf("leer instantánea del carrito: %w", err)
		}
		s.Cart = c
	}
	return &s, nil
}

// SetUser cambia el usuario; si es otro distinto, la instantánea anterior se descarta.
func (r *SessionRepo) SetUser(ctx context.Context, id, userID string) error {
	query := `
		UPDATE sessions SET
			cart_snapshot = CASE WHEN user_id = $2 THEN cart_snapshot ELSE NULL END,
			cart_total    = CASE WHEN user_id = $2 THEN cart_total ELSE NULL END,
			user_id       = $2,
			updated_at    = $3
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, userID, time.Now())
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("update session user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// SaveCartSnapshot guarda la instantánea (nil la borra).
func (r *SessionRepo) SaveCartSnapshot(ctx context.Context, id string, cart *entity.Cart) error {
	var (
		raw   []byte
		total *decimal.Decimal
	)
	if cart != nil {
		b, t, err := encodeSnapshot(cart)
		if err != nil {
			return fmt.Errorf("serializar carrito: %w", err)
		}
		raw, total = b, &t
	}
	query := `UPDATE sessions SET cart_snapshot = $2, cart_total = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, raw, total, time.Now())
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		if isInvalidText(err) {
			return nil
		}
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteIdle elimina las sesiones sin actividad desde before. Devuelve cuántas borró.
func (r *SessionRepo) DeleteIdle(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE updated_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete idle sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
