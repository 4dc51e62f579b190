package observability

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownManager_ContextCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := &http.Server{Handler: http.NotFoundHandler()}
	served := make(chan error, 1)
	go func() { served <- server.Serve(listener) }()

	manager := NewShutdownManager(NewDiscardLogger(), server, time.Second)
	var ran int32
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, manager.WaitForShutdown(ctx))
	assert.Equal(t, int32(1), atomic.LoadInt32(&ran))
	assert.ErrorIs(t, <-served, http.ErrServerClosed)
}

func TestShutdownManager_FuncErrors(t *testing.T) {
	manager := NewShutdownManager(NewDiscardLogger(), nil, 0)
	assert.Equal(t, DefaultShutdownTimeout, manager.timeout)

	manager.RegisterShutdownFunc(func(ctx context.Context) error { return errors.New("flush failed") })
	manager.RegisterShutdownFunc(func(ctx context.Context) error { return nil })

	err := manager.Shutdown()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
}

func TestShutdownManager_Timeout(t *testing.T) {
	manager := NewShutdownManager(NewDiscardLogger(), nil, 20*time.Millisecond)
	release := make(chan struct{})
	defer close(release)
	manager.RegisterShutdownFunc(func(ctx context.Context) error {
		<-release
		return nil
	})

	err := manager.Shutdown()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestRecoverPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		defer RecoverPanic(NewDiscardLogger(), "test")
		panic("boom")
	})

	var err error
	func() {
		defer func() { err = MustRecover(recover()) }()
		panic("kaboom")
	}()
	assert.EqualError(t, err, "panic: kaboom")
	assert.NoError(t, MustRecover(nil))
}
