package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

type InitCmd struct {
	Force bool `help:"Delete an existing local database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); ok {
			dbPath := ctx.Store.GetConfigPath()
			if _, err := os.Stat(dbPath); err == nil {
				if err := ctx.Store.Close(); err != nil {
					return fmt.Errorf("failed to close existing database: %w", err)
				}
				if err := os.Remove(dbPath); err != nil {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
				ctx.Printf("Deleted existing database at: %s\n", dbPath)
			} else if !os.IsNotExist(err) {
				return fmt.Errorf("failed to access existing database: %w", err)
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized mantenix storage at: %s\n", ctx.Store.GetConfigPath())
	if ctx.ConfigPath != "" {
		ctx.Printf("Config file: %s\n", ctx.ConfigPath)
	}
	if ctx.Config.CompanyID == "" {
		ctx.Println("Set company_id in the config file, then run 'mantenix token set'.")
	}
	return nil
}
