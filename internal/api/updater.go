package api

import (
	"context"
	"fmt"

	"github.com/julianstephens/mantenix/internal/adapter"
	"github.com/julianstephens/mantenix/internal/models"
)

// StatusUpdater sends status changes to the source a task came from.
type StatusUpdater struct {
	Client *Client
}

func (u StatusUpdater) UpdateStatus(ctx context.Context, task models.UnifiedTask, status models.Status) error {
	switch src := task.Source.(type) {
	case *models.AgendaTask:
		_, err := u.Client.UpdateAgendaTask(ctx, src.SourceID(), Patch{"status": adapter.AgendaStatus(status)})
		return err
	case *models.RegularTask:
		_, err := u.Client.UpdateRegularTask(ctx, src.SourceID(), Patch{"status": string(status)})
		return err
	}

	switch task.Origin {
	case models.OriginAgenda:
		_, err := u.Client.UpdateAgendaTask(ctx, task.ID, Patch{"status": adapter.AgendaStatus(status)})
		return err
	case models.OriginRegular:
		_, err := u.Client.UpdateRegularTask(ctx, task.ID, Patch{"status": string(status)})
		return err
	default:
		return fmt.Errorf("update status: unknown origin %q", task.Origin)
	}
}
