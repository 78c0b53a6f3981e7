// Package storage selects and opens the local preferences store.
package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/keyring"
	"github.com/julianstephens/mantenix/internal/storage/postgres"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

// KeyringDSN as the --db value reads the connection string from the OS keyring.
const KeyringDSN = "keyring"

// ErrEmbeddedCredentials is returned when a --db connection string carries a password.
var ErrEmbeddedCredentials = errors.New("PostgreSQL connection strings with embedded credentials are not allowed on the command line")

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// HasEmbeddedCredentials reports whether a postgres DSN contains a password.
func HasEmbeddedCredentials(dsn string) bool {
	_, err := postgres.ValidateConnString(dsn)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// Resolve turns the --db flag into a DSN. The environment variable wins, then
// the keyring when requested; a flag DSN must not embed credentials.
func Resolve(flag string) (string, error) {
	if env := strings.TrimSpace(os.Getenv(constants.DBConnectionEnvVar)); env != "" {
		return env, nil
	}
	if flag == KeyringDSN {
		dsn, err := keyring.GetConnectionString()
		if err != nil {
			return "", fmt.Errorf("read connection string from keyring: %w", err)
		}
		return dsn, nil
	}
	if IsPostgres(flag) && HasEmbeddedCredentials(flag) {
		return "", ErrEmbeddedCredentials
	}
	return flag, nil
}

// New returns the provider for dsn without opening it.
func New(dsn string) Provider {
	if IsPostgres(dsn) {
		return postgres.New(dsn)
	}
	return sqlite.New(dsn)
}
