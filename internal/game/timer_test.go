package game

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownFires(t *testing.T) {
	ctx := context.Background()
	mock := quartz.NewMock(t)
	fired := make(chan struct{}, 1)
	c := NewCountdown(mock, 5*time.Second, func() { fired <- struct{}{} })

	c.Start()
	assert.False(t, c.Expired())

	mock.Advance(5 * time.Second).MustWait(ctx)
	select {
	case <-fired:
	default:
		t.Fatal("expected countdown to fire")
	}
	assert.True(t, c.Expired())
}

func TestCountdownPauseResume(t *testing.T) {
	ctx := context.Background()
	mock := quartz.NewMock(t)
	fired := make(chan struct{}, 1)
	c := NewCountdown(mock, 5*time.Second, func() { fired <- struct{}{} })

	c.Start()
	mock.Advance(2 * time.Second).MustWait(ctx)
	c.Pause()
	require.Equal(t, 3*time.Second, c.Remaining())

	// Time passing while paused changes nothing.
	mock.Advance(10 * time.Second).MustWait(ctx)
	require.Equal(t, 3*time.Second, c.Remaining())
	select {
	case <-fired:
		t.Fatal("paused countdown must not fire")
	default:
	}

	c.Resume()
	mock.Advance(3 * time.Second).MustWait(ctx)
	select {
	case <-fired:
	default:
		t.Fatal("expected countdown to fire after resume")
	}
}

func TestCountdownReset(t *testing.T) {
	ctx := context.Background()
	mock := quartz.NewMock(t)
	fired := make(chan struct{}, 1)
	c := NewCountdown(mock, 5*time.Second, func() { fired <- struct{}{} })

	c.Start()
	mock.Advance(4 * time.Second).MustWait(ctx)
	c.Reset(10 * time.Second)
	require.Equal(t, 10*time.Second, c.Remaining())

	// Reset rearms but does not start.
	mock.Advance(20 * time.Second).MustWait(ctx)
	select {
	case <-fired:
		t.Fatal("reset countdown must not fire until started")
	default:
	}

	c.Start()
	mock.Advance(10 * time.Second).MustWait(ctx)
	select {
	case <-fired:
	default:
		t.Fatal("expected countdown to fire")
	}
}

func TestCountdownStop(t *testing.T) {
	ctx := context.Background()
	mock := quartz.NewMock(t)
	fired := make(chan struct{}, 1)
	c := NewCountdown(mock, 5*time.Second, func() { fired <- struct{}{} })

	c.Start()
	mock.Advance(1 * time.Second).MustWait(ctx)
	c.Stop()
	require.Equal(t, 4*time.Second, c.Remaining())

	mock.Advance(10 * time.Second).MustWait(ctx)
	select {
	case <-fired:
		t.Fatal("stopped countdown must not fire")
	default:
	}
}

func TestCountdownStartAtZeroDoesNothing(t *testing.T) {
	mock := quartz.NewMock(t)
	c := NewCountdown(mock, 0, func() { t.Fatal("must not fire") })
	c.Start()
	assert.True(t, c.Expired())
}
