// Package session mantiene las sesiones vivas del storefront: cada una con su propio hilo lógico
// y sus view models, reconstruidos desde el almacén de sesiones cuando hace falta.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
	"github.com/jhoicas/laptophub-storefront/internal/application/checkout"
	"github.com/jhoicas/laptophub-storefront/internal/domain"
	"github.com/jhoicas/laptophub-storefront/internal/domain/repository"
	"github.com/jhoicas/laptophub-storefront/pkg/logger"
)

// Dependencies puertos compartidos por todas las sesiones.
type Dependencies struct {
	Carts    repository.CartRepository
	Users    repository.UserRepository
	Orders   repository.OrderRepository
	Sessions repository.SessionRepository
}

// Config tiempos de las sesiones.
type Config struct {
	Debounce         time.Duration
	StockReloadDelay time.Duration
	NoticeDuration   time.Duration
	APITimeout       time.Duration
	IdleTimeout      time.Duration
}

// Manager crea, recupera y libera sesiones.
type Manager struct {
	mu     sync.Mutex
	ctx    context.Context
	deps   Dependencies
	cfg    Config
	live   map[string]*Storefront
	base   *logger.Logger
	log    *logger.Logger
	closed bool
}

// NewManager construye el gestor. ctx acota la vida de todas las sesiones.
func NewManager(ctx context.Context, deps Dependencies, cfg Config, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		ctx:  ctx,
		deps: deps,
		cfg:  cfg,
		live: make(map[string]*Storefront),
		base: log,
		log:  log.Component("session"),
	}
}

// Create registra una sesión nueva (userID vacío = anónima).
func (m *Manager) Create(ctx context.Context, userID string) (*repository.Session, error) {
	now := time.Now()
	s := &repository.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.deps.Sessions.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("crear sesión: %w", err)
	}
	m.log.Info().Str("session_id", s.ID).Bool("anonima", userID == "").Msg("sesión creada")
	return s, nil
}

// Get devuelve la sesión viva, reconstruyéndola desde el almacén si no está en memoria.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Storefront, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, domain.ErrSessionNotFound
	}
	m.mu.Lock()
	if sf, ok := m.live[sessionID]; ok {
		m.mu.Unlock()
		sf.touch()
		return sf, nil
	}
	m.mu.Unlock()

	stored, err := m.deps.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, domain.ErrSessionNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, domain.ErrSessionNotFound
	}
	if sf, ok := m.live[sessionID]; ok {
		sf.touch()
		return sf, nil
	}
	sf := m.build(stored.ID, stored.UserID)
	m.live[sessionID] = sf
	return sf, nil
}

// Login asocia un usuario a la sesión. La sesión viva se descarta para reconstruirse con el usuario.
func (m *Manager) Login(ctx context.Context, sessionID, userID string) error {
	if userID == "" {
		return domain.ErrInvalidInput
	}
	if err := m.deps.Sessions.SetUser(ctx, sessionID, userID); err != nil {
		return err
	}
	m.evict(sessionID)
	return nil
}

// Delete elimina la sesión.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.evict(sessionID)
	return m.deps.Sessions.Delete(ctx, sessionID)
}

// Sweep libera las sesiones vivas sin uso desde hace más de IdleTimeout. Devuelve cuántas liberó.
func (m *Manager) Sweep(now time.Time) int {
	if m.cfg.IdleTimeout <= 0 {
		return 0
	}
	m.mu.Lock()
	var idle []*Storefront
	for id, sf := range m.live {
		if now.Sub(sf.idleSince()) > m.cfg.IdleTimeout {
			idle = append(idle, sf)
			delete(m.live, id)
		}
	}
	m.mu.Unlock()
	for _, sf := range idle {
		sf.Close()
	}
	if len(idle) > 0 {
		m.log.Debug().Int("sesiones", len(idle)).Msg("sesiones inactivas liberadas")
	}
	return len(idle)
}

// RunJanitor ejecuta Sweep cada interval hasta que ctx se cancela.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			m.Sweep(now)
		}
	}
}

// Live número de sesiones en memoria.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

// Close libera todas las sesiones vivas.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	all := make([]*Storefront, 0, len(m.live))
	for id, sf := range m.live {
		all = append(all, sf)
		delete(m.live, id)
	}
	m.mu.Unlock()
	for _, sf := range all {
		sf.Close()
	}
}

func (m *Manager) evict(sessionID string) {
	m.mu.Lock()
	sf, ok := m.live[sessionID]
	delete(m.live, sessionID)
	m.mu.Unlock()
	if ok {
		sf.Close()
	}
}

func (m *Manager) build(sessionID, userID string) *Storefront {
	log := m.base.Component("storefront")
	ctx, cancel := context.WithCancel(m.ctx)
	loop := cart.NewLoop(log)
	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("session_id", sessionID).Msg("loop de sesión terminó con error")
		}
	}()

	sf := &Storefront{
		id:     sessionID,
		userID: userID,
		loop:   loop,
		bus:    cart.NewBroadcaster(),
		route:  RouteCart,
		cancel: cancel,
		log:    log,
	}
	sf.touch()
	cache := &snapshotCache{repo: m.deps.Sessions, sessionID: sessionID}
	sf.remote = cart.NewRemoteClient(m.deps.Carts, cache, sf.bus, cart.RemoteConfig{UserID: userID, Timeout: m.cfg.APITimeout}, log)
	nav := navigator{s: sf}
	sf.page = cart.NewPageViewModel(ctx, loop, sf.remote, nav, cart.PageConfig{
		Debounce:         m.cfg.Debounce,
		StockReloadDelay: m.cfg.StockReloadDelay,
		NoticeDuration:   m.cfg.NoticeDuration,
	}, m.base.Component(cart.OriginPage))
	sf.badge = cart.NewBadgeViewModel(ctx, loop, sf.remote, m.base.Component(cart.OriginBadge))
	ccfg := checkout.DefaultConfig()
	if m.cfg.StockReloadDelay > 0 {
		ccfg.StockRedirectDelay = m.cfg.StockReloadDelay
	}
	if m.cfg.NoticeDuration > 0 {
		ccfg.ToastDuration = m.cfg.NoticeDuration
	}
	sf.flow = checkout.NewFlow(ctx, loop, m.deps.Users, m.deps.Orders, nav, ccfg, m.base.Component("checkout"))

	loop.Post(func() {
		sf.page.Mount()
		sf.badge.Mount()
	})
	m.log.Debug().Str("session_id", sessionID).Msg("sesión montada")
	return sf
}
