// Package keyring stores mantenix secrets in the OS keyring.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/mantenix/internal/constants"
)

var (
	// ErrNotFound is returned when no secret is stored for the account.
	ErrNotFound = errors.New("secret not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Accounts under the mantenix service.
const (
	accountToken = constants.DefaultKeyringUser
	accountDB    = "db-connection"
)

// tokenAccount scopes tokens per company so switching companies does not
// reuse the wrong credentials.
func tokenAccount(companyID string) string {
	if companyID == "" {
		return accountToken
	}
	return accountToken + ":" + companyID
}

func get(account string) (string, error) {
	secret, err := keyring.Get(constants.AppName, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func set(account, what, secret string) error {
	if secret == "" {
		return fmt.Errorf("%s cannot be empty", what)
	}
	if err := keyring.Set(constants.AppName, account, secret); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", what, err)
	}
	return nil
}

func del(account, what string) error {
	if err := keyring.Delete(constants.AppName, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", what, err)
	}
	return nil
}

// GetToken returns the backend bearer token for companyID.
func GetToken(companyID string) (string, error) {
	return get(tokenAccount(companyID))
}

func SetToken(companyID, token string) error {
	return set(tokenAccount(companyID), "API token", token)
}

func DeleteToken(companyID string) error {
	return del(tokenAccount(companyID), "API token")
}

// GetConnectionString returns the stored preferences database DSN.
func GetConnectionString() (string, error) {
	return get(accountDB)
}

func SetConnectionString(connStr string) error {
	return set(accountDB, "connection string", connStr)
}

func DeleteConnectionString() error {
	return del(accountDB, "connection string")
}

// IsAvailable reports whether the OS keyring answers a lookup.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-check")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
