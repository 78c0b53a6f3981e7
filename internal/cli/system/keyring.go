package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/keyring"
	"github.com/julianstephens/mantenix/internal/storage"
	"github.com/julianstephens/mantenix/internal/storage/postgres"
)

// TokenSetCmd stores the backend bearer token for the configured company.
type TokenSetCmd struct {
	Token string `arg:"" optional:"" help:"API token. Prompted for when omitted."`
}

func (cmd *TokenSetCmd) Run(ctx *cli.Context) error {
	token := strings.TrimSpace(cmd.Token)
	if token == "" {
		err := huh.NewInput().
			Title("API token").
			Description("Stored in the OS keyring for company " + ctx.Config.CompanyID).
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Run()
		if err != nil {
			return err
		}
		token = strings.TrimSpace(token)
	}
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.SetToken(ctx.Config.CompanyID, token); err != nil {
		return err
	}
	ctx.Println("✓ API token stored in OS keyring")
	return nil
}

type TokenDeleteCmd struct{}

func (cmd *TokenDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteToken(ctx.Config.CompanyID); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API token found in keyring")
		}
		return err
	}
	ctx.Println("✓ API token deleted from OS keyring")
	return nil
}

type TokenStatusCmd struct{}

func (cmd *TokenStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
	}
	_, source, err := ctx.Config.ResolveToken()
	if err != nil {
		return err
	}
	ctx.Printf("✓ API token found (%s)\n", source)
	return nil
}

// DBSetCmd stores a PostgreSQL connection string for --db=keyring.
type DBSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in keyring."`
}

func (cmd *DBSetCmd) Run(ctx *cli.Context) error {
	if !storage.IsPostgres(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		ctx.Println("⚠️  Connection string contains embedded credentials; it is stored as-is in the OS keyring.")
	}
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Println("  Use it with --db=keyring")
	return nil
}

type DBDeleteCmd struct{}

func (cmd *DBDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}
