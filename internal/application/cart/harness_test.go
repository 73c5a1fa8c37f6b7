package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
	"github.com/jhoicas/laptophub-storefront/internal/application/dto"
	"github.com/jhoicas/laptophub-storefront/internal/domain/entity"
	"github.com/jhoicas/laptophub-storefront/internal/testutil"
)

type fakeNavigator struct {
	handoffs []dto.CheckoutHandoff
	reloads  int
}

func (n *fakeNavigator) NavigateToCheckout(h dto.CheckoutHandoff) { n.handoffs = append(n.handoffs, h) }
func (n *fakeNavigator) ReloadPage()                              { n.reloads++ }

type harness struct {
	sched  *testutil.ManualScheduler
	repo   *testutil.FakeCartRepository
	cache  *testutil.SnapshotCache
	bus    *cart.Broadcaster
	remote *cart.RemoteClient
	nav    *fakeNavigator
}

func newHarness(t *testing.T, items ...entity.CartItem) *harness {
	t.Helper()
	h := &harness{
		sched: testutil.NewManualScheduler(),
		repo:  testutil.NewFakeCartRepository(items...),
		cache: &testutil.SnapshotCache{},
		bus:   cart.NewBroadcaster(),
		nav:   &fakeNavigator{},
	}
	h.remote = cart.NewRemoteClient(h.repo, h.cache, h.bus, cart.RemoteConfig{UserID: "u-1"}, nil)
	return h
}

// page monta la página y completa la primera carga.
func (h *harness) page(t *testing.T) *cart.PageViewModel {
	t.Helper()
	p := cart.NewPageViewModel(context.Background(), h.sched, h.remote, h.nav, cart.PageConfig{
		Debounce:         300 * time.Millisecond,
		StockReloadDelay: 5 * time.Second,
		NoticeDuration:   2500 * time.Millisecond,
		Now:              h.sched.Now,
	}, nil)
	p.Mount()
	h.sched.Flush()
	t.Cleanup(p.Unmount)
	return p
}

func (h *harness) badge(t *testing.T) *cart.BadgeViewModel {
	t.Helper()
	b := cart.NewBadgeViewModel(context.Background(), h.sched, h.remote, nil)
	b.Mount()
	h.sched.Flush()
	t.Cleanup(b.Unmount)
	return b
}

func viewItem(t *testing.T, v dto.CartView, id int64) dto.CartItemView {
	t.Helper()
	for _, it := range v.Items {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %d no está en la vista", id)
	return dto.CartItemView{}
}
