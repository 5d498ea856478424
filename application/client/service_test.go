package client

import (
	"context"
	"testing"

	"aquadash/domain/client"
	"aquadash/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClient(t *testing.T) {
	svc := NewApplicationService(mocks.NewMockClientRepository())
	ctx := context.Background()

	resp, err := svc.GetClient(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "Hotel Les Palmiers", resp.DisplayName)
	assert.Equal(t, "achats@palmiers.example", resp.Email)
	assert.True(t, resp.IsActive)

	resp, err = svc.GetClient(ctx, "client-2")
	require.NoError(t, err)
	assert.Empty(t, resp.Email)

	resp, err = svc.GetClient(ctx, "client-3")
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = svc.GetClient(ctx, "client-404")
	assert.ErrorIs(t, err, client.ErrClientNotFound)
}
