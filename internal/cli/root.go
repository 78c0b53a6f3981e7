// Package cli holds the shared command context; the commands live in its
// subpackages.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/mantenix/internal/api"
	"github.com/julianstephens/mantenix/internal/backup"
	"github.com/julianstephens/mantenix/internal/config"
	"github.com/julianstephens/mantenix/internal/events"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/reconciler"
	"github.com/julianstephens/mantenix/internal/session"
	"github.com/julianstephens/mantenix/internal/storage"
	"github.com/julianstephens/mantenix/internal/storage/sqlite"
)

type Context struct {
	Config     config.Config
	ConfigPath string
	Store      storage.Provider

	// Client is built on first use from the config and the resolved token.
	// Tests set it directly.
	Client *api.Client
	// Out receives command output. Defaults to stdout.
	Out io.Writer
	Now func() time.Time

	bus *events.EventBus
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// Writer exposes the output stream for table writers and notifiers.
func (c *Context) Writer() io.Writer {
	return c.out()
}

// Backend returns the API client, resolving the token on first use.
func (c *Context) Backend() (*api.Client, error) {
	if c.Client != nil {
		return c.Client, nil
	}
	token, source, err := c.Config.ResolveToken()
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved API token", "source", source)

	client, err := api.New(api.Options{
		BaseURL:   c.Config.APIURL,
		CompanyID: c.Config.CompanyID,
		Token:     token,
		Timeout:   c.Config.RequestTimeout(),
	})
	if err != nil {
		return nil, err
	}
	c.Client = client
	return client, nil
}

// Bus is shared by every session built from this context.
func (c *Context) Bus() *events.EventBus {
	if c.bus == nil {
		c.bus = events.NewEventBus()
	}
	return c.bus
}

// NewSession wires the backend, the local store and a reconciler into a
// session. n receives every user-facing notification.
func (c *Context) NewSession(n notifier.Notifier) (*session.Session, *reconciler.Reconciler, error) {
	client, err := c.Backend()
	if err != nil {
		return nil, nil, err
	}
	loc, err := c.Config.Location()
	if err != nil {
		return nil, nil, err
	}

	rec := reconciler.New(api.StatusUpdater{Client: client}, reconciler.Options{
		SettleDelay: c.Config.SettleDelay(),
		Notifier:    n,
		Bus:         c.Bus(),
		Now:         c.Now,
	})
	sess, err := session.New(session.Options{
		Source:     client,
		Store:      c.Store,
		Reconciler: rec,
		Notifier:   n,
		Bus:        c.Bus(),
		Location:   loc,
		Now:        c.Now,
	})
	if err != nil {
		rec.Close()
		return nil, nil, err
	}
	return sess, rec, nil
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
