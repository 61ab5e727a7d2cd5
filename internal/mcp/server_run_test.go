package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Run_ServerModeStopsOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	s.config.Mode = "server"
	s.config.Port = 0 // any free port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestServer_Run_ServerModeInvalidAddress(t *testing.T) {
	s, _ := newTestServer(t)
	s.config.Mode = "server"
	s.config.Host = "256.256.256.256"
	s.config.Port = 1

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
