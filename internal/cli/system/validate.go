package system

import (
	"context"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/validation"
)

// ValidateCmd audits the fetched tasks for records the normalization could
// not make sense of.
type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	sess, rec, err := ctx.NewSession(notifier.NewTerminal(ctx.Writer()))
	if err != nil {
		return err
	}
	defer rec.Close()

	if err := sess.Refresh(context.Background()); err != nil {
		logger.Warn("Partial refresh", "error", err)
	}

	ctx.Println("Validating tasks...")
	result := validation.Tasks(sess.Tasks())
	ctx.Println()
	ctx.Println(result.FormatReport())
	return nil
}
