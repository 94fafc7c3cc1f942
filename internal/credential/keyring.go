// Package credential stores secrets in the system keyring: the
// server's token-signing secret and the CLI's session token.
package credential

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "taskhub"

// Well-known credential keys.
const (
	KeyTokenSecret  = "token-secret"
	KeySessionToken = "session-token"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskhub/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskhub-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// EnsureTokenSecret returns the persisted token-signing secret,
// generating and storing a new random one on first use.
func EnsureTokenSecret() (string, error) {
	if secret, err := Get(KeyTokenSecret); err == nil && secret != "" {
		return secret, nil
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token secret: %w", err)
	}
	secret := hex.EncodeToString(buf)

	if err := Set(KeyTokenSecret, secret); err != nil {
		return "", err
	}
	return secret, nil
}
