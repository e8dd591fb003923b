package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckerRegistryAllHealthy(t *testing.T) {
	registry := NewCheckerRegistry()
	registry.Register(NewFuncChecker("dedupe", func(ctx context.Context) error {
		return nil
	}))

	h := registry.Check(context.Background())
	assert.Equal(t, StatusHealthy, h.Status)
	require.Contains(t, h.Checks, "dedupe")
	assert.Equal(t, StatusHealthy, h.Checks["dedupe"].Status)
}

func TestCheckerRegistryReportsUnhealthyChecker(t *testing.T) {
	registry := NewCheckerRegistry()
	registry.Register(NewFuncChecker("ok", func(ctx context.Context) error {
		return nil
	}))
	registry.Register(NewFuncChecker("broken", func(ctx context.Context) error {
		return errors.New("backend unreachable")
	}))

	h := registry.Check(context.Background())
	assert.Equal(t, StatusUnhealthy, h.Status)
	assert.Equal(t, StatusHealthy, h.Checks["ok"].Status)
	assert.Equal(t, StatusUnhealthy, h.Checks["broken"].Status)
	assert.Contains(t, h.Checks["broken"].Message, "backend unreachable")
}
