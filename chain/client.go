// Package chain provides the payment collaborator used for wallet
// provisioning, subscription payments and withdrawals. The simulated client
// generates syntactically valid addresses and transaction hashes without
// touching a real network.
package chain

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SimulatedClient implements service.ChainClient against no real chain.
// Transfers always succeed and return a fabricated transaction hash.
type SimulatedClient struct {
	network string
}

// NewSimulatedClient creates a simulated chain client for the given network
// label (informational only).
func NewSimulatedClient(network string) *SimulatedClient {
	return &SimulatedClient{network: network}
}

// CreateWallet generates a fresh keypair-shaped address and private key
func (c *SimulatedClient) CreateWallet(ctx context.Context) (string, string, error) {
	address, err := randomHex(20)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate address: %w", err)
	}
	privateKey, err := randomHex(32)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate private key: %w", err)
	}

	return "0x" + address, privateKey, nil
}

// Send fabricates a transfer and returns its transaction hash
func (c *SimulatedClient) Send(ctx context.Context, privateKey, toAddress string, amount float64) (string, error) {
	if !c.ValidateAddress(toAddress) {
		return "", fmt.Errorf("invalid destination address %q", toAddress)
	}
	if amount <= 0 {
		return "", fmt.Errorf("invalid transfer amount %f", amount)
	}

	txHash, err := randomHex(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate transaction hash: %w", err)
	}
	txHash = "0x" + txHash

	log.WithFields(log.Fields{
		"network": c.network,
		"to":      toAddress,
		"amount":  amount,
		"txHash":  txHash,
	}).Info("Simulated chain transfer")

	return txHash, nil
}

// ValidateAddress checks for the 0x-prefixed 20-byte hex form
func (c *SimulatedClient) ValidateAddress(address string) bool {
	if !strings.HasPrefix(address, "0x") || len(address) != 42 {
		return false
	}
	_, err := hex.DecodeString(address[2:])
	return err == nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
