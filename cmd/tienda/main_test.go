package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/harentsoaR/tienda-ropa/internal/config"
	"github.com/harentsoaR/tienda-ropa/internal/platform/logger"
	"github.com/harentsoaR/tienda-ropa/internal/utils"
)

func TestRootSwallowsWorkflowFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cmd := newRootCmd(config.Config{}, logger.FromZap(zap.New(core)))
	cmd.SetArgs(nil)
	cmd.SetOut(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, 1, logs.FilterMessage("workflow failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("connection closed").Len())
}

func TestRootRejectsArguments(t *testing.T) {
	cmd := newRootCmd(config.Config{}, logger.Nop())
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}

func TestTokenCommand(t *testing.T) {
	cfg := config.Config{API: config.API{JWTSecret: "cli-secret"}}
	var out bytes.Buffer
	cmd := newRootCmd(cfg, logger.Nop())
	cmd.SetArgs([]string{"token", "--subject", "dashboard", "--ttl", "1h"})
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())

	claims, err := utils.ValidateJWT([]byte("cli-secret"), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "dashboard", claims.Subject)
}

func TestTokenCommandNeedsSecret(t *testing.T) {
	cmd := newRootCmd(config.Config{}, logger.Nop())
	cmd.SetArgs([]string{"token"})
	cmd.SetOut(&bytes.Buffer{})

	assert.ErrorIs(t, cmd.Execute(), utils.ErrNoSecret)
}
