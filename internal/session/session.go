// Package session holds one user's view over both task sources: fetched
// data, preferences, and the optimistic status overlay.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/julianstephens/mantenix/internal/adapter"
	"github.com/julianstephens/mantenix/internal/aggregate"
	"github.com/julianstephens/mantenix/internal/constants"
	"github.com/julianstephens/mantenix/internal/events"
	"github.com/julianstephens/mantenix/internal/logger"
	"github.com/julianstephens/mantenix/internal/models"
	"github.com/julianstephens/mantenix/internal/notifier"
	"github.com/julianstephens/mantenix/internal/reconciler"
	"github.com/julianstephens/mantenix/internal/rollup"
	"github.com/julianstephens/mantenix/internal/utils"
	"github.com/julianstephens/mantenix/internal/validation"
)

// Source fetches the backend collections a session renders.
type Source interface {
	ListAgendaTasks(ctx context.Context) ([]models.AgendaTask, error)
	ListRegularTasks(ctx context.Context) ([]models.RegularTask, error)
	ListTaskGroups(ctx context.Context) ([]models.TaskGroup, error)
}

// PreferenceStore is the part of storage.Provider a session needs.
type PreferenceStore interface {
	GetPreferences() (models.Preferences, error)
	SavePreferences(models.Preferences) error
}

var ErrTaskNotFound = errors.New("task not found")

type Options struct {
	Source     Source
	Store      PreferenceStore
	Reconciler *reconciler.Reconciler
	Notifier   notifier.Notifier
	Bus        *events.EventBus
	// Location is the fallback when the preferences name no timezone.
	Location *time.Location
	Now      func() time.Time
}

type Session struct {
	source   Source
	store    PreferenceStore
	rec      *reconciler.Reconciler
	notifier notifier.Notifier
	bus      *events.EventBus
	fallback *time.Location
	now      func() time.Time

	mu        sync.RWMutex
	prefs     models.Preferences
	agenda    []models.AgendaTask
	regular   []models.RegularTask
	groups    []models.TaskGroup
	refreshed time.Time
}

// New reads the preferences once. Later changes are written through.
func New(opts Options) (*Session, error) {
	if opts.Source == nil || opts.Store == nil || opts.Reconciler == nil {
		return nil, errors.New("session requires a source, a store and a reconciler")
	}
	if opts.Notifier == nil {
		opts.Notifier = notifier.Nop{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	prefs, err := opts.Store.GetPreferences()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	models.ApplyDefaultPreferences(&prefs)

	return &Session{
		source:   opts.Source,
		store:    opts.Store,
		rec:      opts.Reconciler,
		notifier: opts.Notifier,
		bus:      opts.Bus,
		fallback: opts.Location,
		now:      opts.Now,
		prefs:    prefs,
	}, nil
}

// Refresh fetches both task sources and the groups concurrently. A failed
// source is replaced by an empty list and reported through the notifier; the
// returned error joins the failures for callers that want them.
func (s *Session) Refresh(ctx context.Context) error {
	var (
		agenda     []models.AgendaTask
		regular    []models.RegularTask
		groups     []models.TaskGroup
		agendaErr  error
		regularErr error
	)

	// Each source fails on its own; one error must not cancel the others.
	var wg sync.WaitGroup
	wg.Go(func() {
		agenda, agendaErr = s.source.ListAgendaTasks(ctx)
	})
	wg.Go(func() {
		regular, regularErr = s.source.ListRegularTasks(ctx)
	})
	wg.Go(func() {
		var err error
		groups, err = s.source.ListTaskGroups(ctx)
		if err != nil {
			logger.Warn("Could not load task groups", "error", err)
		}
	})
	wg.Wait()

	if agendaErr != nil {
		agenda = []models.AgendaTask{}
		s.notifier.Failure(constants.MsgLoadAgendaFailed, agendaErr)
	}
	if regularErr != nil {
		regular = []models.RegularTask{}
		s.notifier.Failure(constants.MsgLoadRegularFailed, regularErr)
	}

	s.mu.Lock()
	// Confirmed statuses are written into these copies, never the caller's.
	s.agenda, s.regular = slices.Clone(agenda), slices.Clone(regular)
	if groups != nil {
		s.groups = groups
	}
	s.refreshed = s.now()
	s.mu.Unlock()

	logger.Debug("Session refreshed", "agenda", len(agenda), "regular", len(regular), "groups", len(groups))
	s.bus.Publish(events.TopicData, events.DataRefreshedEvent{
		Agenda:    len(agenda),
		Regular:   len(regular),
		Timestamp: s.now(),
	})
	return errors.Join(wrapSource("agenda", agendaErr), wrapSource("tasks", regularErr))
}

func wrapSource(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("load %s: %w", name, err)
}

// Location is the timezone "today" is evaluated in.
func (s *Session) Location() *time.Location {
	s.mu.RLock()
	tz := s.prefs.Timezone
	s.mu.RUnlock()

	if tz == "" || tz == constants.DefaultTimezone {
		return s.fallback
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		logger.Warn("Invalid timezone preference, using fallback", "timezone", tz, "error", err)
		return s.fallback
	}
	return loc
}

// Tasks returns the combined set with the status overlay applied.
func (s *Session) Tasks() []models.UnifiedTask {
	loc := s.Location()
	s.mu.RLock()
	all := aggregate.Combine(s.agenda, s.regular, loc)
	s.mu.RUnlock()
	return s.rec.Apply(all)
}

// Task finds one task by origin and id in the overlaid set.
func (s *Session) Task(origin models.Origin, id models.ID) (models.UnifiedTask, error) {
	key := models.TaskKey(origin, id)
	for _, t := range s.Tasks() {
		if t.Key() == key {
			return t, nil
		}
	}
	return models.UnifiedTask{}, fmt.Errorf("%w: %s", ErrTaskNotFound, key)
}

func (s *Session) Groups() []models.TaskGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.groups)
}

// View is everything a presentation layer renders for one filter.
type View struct {
	aggregate.Result
	People      []models.PersonStats `json:"people"`
	Summary     rollup.Summary       `json:"summary"`
	Groups      []rollup.GroupStats  `json:"groups"`
	Filter      aggregate.Filter     `json:"filter"`
	GeneratedAt time.Time            `json:"generatedAt"`
	RefreshedAt time.Time            `json:"refreshedAt"`
}

// DefaultFilter builds a filter from the persisted origin and person choice.
func (s *Session) DefaultFilter() aggregate.Filter {
	p := s.Preferences()
	return aggregate.Filter{Origin: p.OriginFilter, Person: p.SelectedPerson}
}

// View filters the overlaid set and computes the rollups. The rollup uses the
// unfiltered set, scoped only by f.GroupID.
func (s *Session) View(f aggregate.Filter) (View, error) {
	if err := f.Validate(); err != nil {
		return View{}, err
	}
	now, loc := s.now(), s.Location()
	tasks := s.Tasks()
	prefs := s.Preferences()

	people := rollup.Compute(tasks, rollup.Options{
		Pinned:   prefs.PinnedPeople,
		GroupID:  f.GroupID,
		Now:      now,
		Location: loc,
	})

	s.mu.RLock()
	groups := rollup.ByGroup(tasks, s.groups, now, loc)
	refreshed := s.refreshed
	s.mu.RUnlock()

	return View{
		Result:      aggregate.Apply(tasks, f, now, loc),
		People:      people,
		Summary:     rollup.Summarize(people),
		Groups:      groups,
		Filter:      f,
		GeneratedAt: now,
		RefreshedAt: refreshed,
	}, nil
}

// ChangeStatus validates the request and hands it to the reconciler.
func (s *Session) ChangeStatus(ctx context.Context, origin models.Origin, id models.ID, status models.Status) error {
	task, err := s.Task(origin, id)
	if err != nil {
		return err
	}
	if err := validation.StatusChange(task, status).Err("change status"); err != nil {
		return err
	}
	return s.rec.ChangeStatusThen(ctx, task, status, func() {
		s.confirmStatus(task, status)
	})
}

// confirmStatus writes a confirmed status into the fetched record, so the
// task keeps it once the overlay settles and until the next refresh.
func (s *Session) confirmStatus(task models.UnifiedTask, status models.Status) {
	completedAt := func(current string) string {
		switch {
		case status != models.StatusCompleted:
			return ""
		case current != "":
			return current
		default:
			return s.now().UTC().Format(time.RFC3339)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch task.Origin {
	case models.OriginAgenda:
		for i := range s.agenda {
			if s.agenda[i].SourceID() == task.ID {
				s.agenda[i].Status = adapter.AgendaStatus(status)
				s.agenda[i].CompletedAt = completedAt(s.agenda[i].CompletedAt)
				return
			}
		}
	case models.OriginRegular:
		for i := range s.regular {
			if s.regular[i].SourceID() == task.ID {
				s.regular[i].Status = string(status)
				s.regular[i].CompletedAt = completedAt(s.regular[i].CompletedAt)
				return
			}
		}
	}
	logger.Debug("Confirmed task no longer in fetched data", "task", task.Key())
}
