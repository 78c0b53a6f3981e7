package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/mantenix/internal/cli"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	toasts := notifier.NewQueue()
	sess, rec, err := ctx.NewSession(toasts)
	if err != nil {
		return err
	}
	defer rec.Close()

	p := tea.NewProgram(tui.NewModel(sess, toasts, ctx.Bus()), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
