package main

import (
	"testing"

	"github.com/MikeRez0/collectdesk/internal/adapter/auth"
	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/MikeRez0/collectdesk/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func TestRun(t *testing.T) {
	token, err := run([]string{"-k", testKey, "-subject", "7", "-kind", "customer"})
	require.NoError(t, err)

	tokens, err := auth.New(&config.Auth{TokenKey: testKey})
	require.NoError(t, err)
	payload, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), payload.SubjectID)
	assert.Equal(t, domain.SubjectCustomer, payload.Kind)
}

func TestRun_Errors(t *testing.T) {
	_, err := run([]string{"-subject", "7"})
	assert.Error(t, err)

	_, err = run([]string{"-k", testKey, "-subject", "7", "-kind", "robot"})
	assert.ErrorIs(t, err, domain.ErrTokenCreation)

	_, err = run([]string{"-k", testKey})
	assert.ErrorIs(t, err, domain.ErrTokenCreation)
}
