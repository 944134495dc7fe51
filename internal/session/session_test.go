package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"givingbank/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRegistry_SamePageForVisitor(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Close()

	a := r.Page("v1")
	b := r.Page("v1")
	c := r.Page("v2")
	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, r.Len())
}

func TestPage_DispatchSerializes(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Close()
	p := r.Page("v1")

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Dispatch(func() {
				v := counter
				time.Sleep(time.Microsecond)
				counter = v + 1
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
}

func TestPage_AfterRunsThroughDispatch(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Close()
	p := r.Page("v1")

	done := make(chan struct{})
	p.After(5*time.Millisecond, func() {
		p.Form("hoursForm").Add("totalHours", "", true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled callback did not run")
	}

	p.Dispatch(func() {
		_, ok := p.Form("hoursForm").Field("totalHours")
		assert.True(t, ok)
	})
}

func TestSweep_TearsDownIdlePages(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	r := NewRegistry(30*time.Minute, WithClock(func() time.Time { return now }))
	defer r.Close()

	idle := r.Page("idle")
	var fired atomic.Bool
	idle.After(50*time.Millisecond, func() { fired.Store(true) })
	require.Equal(t, 1, idle.Pending())

	now = now.Add(20 * time.Minute)
	r.Page("active")

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep())

	_, ok := r.Lookup("idle")
	assert.False(t, ok)
	_, ok = r.Lookup("active")
	assert.True(t, ok)

	assert.Equal(t, 0, idle.Pending())
	time.Sleep(80 * time.Millisecond)
	assert.False(t, fired.Load(), "callback fired against a torn-down page")
}

func TestStart_ClosesPagesOnCancel(t *testing.T) {
	r := NewRegistry(time.Hour, WithNotifierOptions(notify.WithTTL(time.Hour)))
	p := r.Page("v1")
	p.Notifier.Notify("مرحباً", notify.Info)
	require.Equal(t, 1, p.Pending())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	<-done
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, p.Pending())
}
