package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/web"
)

type ServeCmd struct {
	Addr    string        `help:"Listen address. Defaults to serve_addr from the config file."`
	Refresh time.Duration `help:"Refetch both sources on this interval. 0 disables." default:"0"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sess, rec, err := ctx.NewSession(notifier.Log{})
	if err != nil {
		return err
	}
	defer rec.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sess.Refresh(runCtx); err != nil {
		logger.Warn("Partial refresh", "error", err)
	}
	if c.Refresh > 0 {
		go func() {
			ticker := time.NewTicker(c.Refresh)
			defer ticker.Stop()
			for {
				select {
				case <-runCtx.Done():
					return
				case <-ticker.C:
					if err := sess.Refresh(runCtx); err != nil {
						logger.Warn("Periodic refresh failed", "error", err)
					}
				}
			}
		}()
	}

	addr := c.Addr
	if addr == "" {
		addr = ctx.Config.ServeAddr
	}
	ctx.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)
	return web.NewServer(sess).Run(runCtx, addr)
}
