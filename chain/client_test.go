package chain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedClient_CreateWallet(t *testing.T) {
	client := NewSimulatedClient("testnet")

	address, privateKey, err := client.CreateWallet(context.Background())
	require.NoError(t, err)
	assert.True(t, client.ValidateAddress(address))
	assert.Len(t, privateKey, 64)

	// Wallets are unique
	address2, _, err := client.CreateWallet(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, address, address2)
}

func TestSimulatedClient_Send(t *testing.T) {
	client := NewSimulatedClient("testnet")

	address, _, err := client.CreateWallet(context.Background())
	require.NoError(t, err)

	txHash, err := client.Send(context.Background(), "key", address, 0.005)
	require.NoError(t, err)
	assert.Len(t, txHash, 66)
	assert.Equal(t, "0x", txHash[:2])

	_, err = client.Send(context.Background(), "key", "not-an-address", 0.005)
	assert.Error(t, err)

	_, err = client.Send(context.Background(), "key", address, 0)
	assert.Error(t, err)
}

func TestSimulatedClient_ValidateAddress(t *testing.T) {
	client := NewSimulatedClient("testnet")

	assert.True(t, client.ValidateAddress("0x"+"ab12"+"000000000000000000000000000000000000"))
	assert.False(t, client.ValidateAddress("ab12"))
	assert.False(t, client.ValidateAddress("0xzz"))
	assert.False(t, client.ValidateAddress("0xab12"))
}
