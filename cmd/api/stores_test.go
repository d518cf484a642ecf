package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-api/pkg/config"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

func TestOpenStores_Memoria(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.StorageMemory}}
	st, err := openStores(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer st.close()

	assert.NotNil(t, st.users)
	assert.NotNil(t, st.tx)
	assert.NotNil(t, st.idempotency)
}

func TestOpenStores_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := openStores(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
