package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/laptophub-storefront/internal/application/cart"
)

func startLoop(t *testing.T) *cart.Loop {
	t.Helper()
	l := cart.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = l.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		l.Close()
	})
	return l
}

func TestLoop_PostEnOrden(t *testing.T) {
	l := startLoop(t)

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	var n int
	require.NoError(t, l.Call(context.Background(), func() { n = len(got) }))

	require.Equal(t, 100, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_AfterFunc_Dispara(t *testing.T) {
	l := startLoop(t)

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("el timer no disparó")
	}
}

func TestLoop_AfterFunc_StopEvitaLaTarea(t *testing.T) {
	l := startLoop(t)

	var fired bool
	var timer cart.Timer
	require.NoError(t, l.Call(context.Background(), func() {
		timer = l.AfterFunc(20*time.Millisecond, func() { fired = true })
	}))
	var stopped bool
	require.NoError(t, l.Call(context.Background(), func() { stopped = timer.Stop() }))
	assert.True(t, stopped)

	time.Sleep(60 * time.Millisecond)
	require.NoError(t, l.Call(context.Background(), func() {
		assert.False(t, fired)
		assert.False(t, timer.Stop(), "un timer detenido no se detiene dos veces")
	}))
}

func TestLoop_PanicoEnTarea_NoDetieneElLoop(t *testing.T) {
	l := startLoop(t)

	l.Post(func() { panic("handler roto") })
	var ok bool
	require.NoError(t, l.Call(context.Background(), func() { ok = true }))
	assert.True(t, ok)
}

func TestLoop_Cerrado_CallRetornaError(t *testing.T) {
	l := startLoop(t)
	l.Close()

	<-l.Done()
	err := l.Call(context.Background(), func() {})
	assert.ErrorIs(t, err, cart.ErrLoopClosed)
}

func TestLoop_Run_TerminaConElContexto(t *testing.T) {
	l := cart.NewLoop(nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- l.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run no terminó")
	}
	<-l.Done()
}

func TestLoop_Call_RespetaElContexto(t *testing.T) {
	// Sin Run nadie consume la cola.
	l := cart.NewLoop(nil)
	defer l.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := l.Call(ctx, func() {})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
