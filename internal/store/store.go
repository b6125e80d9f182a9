// Package store holds the authoritative in-memory tasks, notes, PIN and
// theme flag, and mirrors them into a kv.Store on every change.
package store

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"pocketdesk/internal/kv"
	"pocketdesk/internal/models"
	"pocketdesk/pkg/logger"
)

var (
	ErrEmptyTitle  = errors.New("title is required")
	ErrPinRequired = errors.New("register a PIN before creating a locked note")
	ErrNotLoaded   = errors.New("store has not finished loading")
)

// Notifier receives change events after each mutation. Failures are logged.
type Notifier interface {
	Publish(ctx context.Context, ev models.ChangeEvent) error
}

type Option func(*Store)

// WithClock replaces time.Now as the id source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithSaveDelay makes the background saver wait d after a change before
// flushing, so bursts of edits are written once.
func WithSaveDelay(d time.Duration) Option {
	return func(s *Store) { s.saveDelay = d }
}

type Store struct {
	kv        kv.Store
	now       func() time.Time
	notifier  Notifier
	saveDelay time.Duration

	mu          sync.RWMutex
	tasks       []models.Task
	notes       []models.Note
	pin         string
	dark        bool
	loaded      bool
	lastID      int64
	gen         uint64 // bumped by every mutation
	savedGen    uint64 // gen of the last snapshot written
	wipePending bool
	wipeGen     uint64

	ioMu      sync.Mutex // serializes Load, Save and saver flushes
	loadGroup singleflight.Group

	kick    chan struct{}
	lifeMu  sync.Mutex
	stop    context.CancelFunc
	stopped chan struct{}
}

// New returns an empty, not yet loaded store.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:    backend,
		now:   time.Now,
		tasks: []models.Task{},
		notes: []models.Note{},
		kick:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Loaded reports whether Load has completed at least once.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Tasks returns a copy of the tasks in storage order (newest first).
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Notes returns a copy of the notes in storage order (newest first).
func (s *Store) Notes() []models.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Note(id string) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return models.Note{}, false
	}
	return s.notes[i], true
}

// CreateTask inserts a task at the front of the collection.
func (s *Store) CreateTask(ctx context.Context, title, desc, date string, alarm bool) (models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return models.Task{}, ErrNotLoaded
	}
	t := models.Task{ID: s.nextIDLocked(), Title: title, Description: desc, Date: date, Alarm: alarm}
	s.tasks = slices.Insert(s.tasks, 0, t)
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionCreate, models.KindTask, t.ID)
	return t, nil
}

// EditTask replaces title, description and date in place. A missing id is
// not an error; it reports false and changes nothing.
func (s *Store) EditTask(ctx context.Context, id, title, desc, date string) (bool, error) {
	if strings.TrimSpace(title) == "" {
		return false, ErrEmptyTitle
	}
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, ErrNotLoaded
	}
	i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.tasks[i].Title = title
	s.tasks[i].Description = desc
	s.tasks[i].Date = date
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionUpdate, models.KindTask, id)
	return true, nil
}

// CreateNote inserts a note at the front of the collection. A locked note
// needs a registered PIN; without one nothing is created and
// ErrPinRequired is returned so the caller can register and retry.
func (s *Store) CreateNote(ctx context.Context, title, desc string, locked bool) (models.Note, error) {
	if strings.TrimSpace(title) == "" {
		return models.Note{}, ErrEmptyTitle
	}
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return models.Note{}, ErrNotLoaded
	}
	if locked && s.pin == "" {
		s.mu.Unlock()
		return models.Note{}, ErrPinRequired
	}
	n := models.Note{ID: s.nextIDLocked(), Title: title, Description: desc, Locked: locked}
	s.notes = slices.Insert(s.notes, 0, n)
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionCreate, models.KindNote, n.ID)
	return n, nil
}

// EditNote replaces title, description and the locked flag in place.
func (s *Store) EditNote(ctx context.Context, id, title, desc string, locked bool) (bool, error) {
	if strings.TrimSpace(title) == "" {
		return false, ErrEmptyTitle
	}
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, ErrNotLoaded
	}
	i := slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.notes[i].Title = title
	s.notes[i].Description = desc
	s.notes[i].Locked = locked
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionUpdate, models.KindNote, id)
	return true, nil
}

// Delete removes the record with id from the kind's collection. Deleting
// an id that is not there is a no-op.
func (s *Store) Delete(ctx context.Context, kind models.Kind, id string) (bool, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, ErrNotLoaded
	}
	removed := false
	switch kind {
	case models.KindTask:
		if i := slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id }); i >= 0 {
			s.tasks = slices.Delete(s.tasks, i, i+1)
			removed = true
		}
	case models.KindNote:
		if i := slices.IndexFunc(s.notes, func(n models.Note) bool { return n.ID == id }); i >= 0 {
			s.notes = slices.Delete(s.notes, i, i+1)
			removed = true
		}
	}
	if removed {
		s.gen++
	}
	s.mu.Unlock()

	if removed {
		s.changed(ctx, models.ActionDelete, kind, id)
	}
	return removed, nil
}

// ClearAll empties both collections, forgets the PIN, resets the theme and
// erases every persisted key on the next flush.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.tasks = []models.Task{}
	s.notes = []models.Note{}
	s.pin = ""
	s.dark = false
	s.gen++
	s.wipePending = true
	s.wipeGen = s.gen
	s.mu.Unlock()

	s.changed(ctx, models.ActionClear, "", "")
	return nil
}

// PIN returns the registered PIN, if any.
func (s *Store) PIN() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pin, s.pin != ""
}

func (s *Store) HasPIN() bool {
	_, ok := s.PIN()
	return ok
}

// SetPIN replaces the PIN. An empty value removes it.
func (s *Store) SetPIN(ctx context.Context, pin string) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.pin = pin
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionPIN, "", "")
	return nil
}

func (s *Store) IsDark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *Store) SetDark(ctx context.Context, dark bool) error {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.dark = dark
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionTheme, "", "")
	return nil
}

// ToggleTheme flips the dark-mode flag and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, ErrNotLoaded
	}
	s.dark = !s.dark
	dark := s.dark
	s.gen++
	s.mu.Unlock()

	s.changed(ctx, models.ActionTheme, "", "")
	return dark, nil
}

// nextIDLocked issues a millisecond timestamp id, bumped past the last one
// issued so ids stay unique and increasing under a coarse or stuck clock.
func (s *Store) nextIDLocked() string {
	ms := s.now().UnixMilli()
	if ms <= s.lastID {
		ms = s.lastID + 1
	}
	s.lastID = ms
	return strconv.FormatInt(ms, 10)
}

func (s *Store) changed(ctx context.Context, action string, kind models.Kind, id string) {
	s.requestSave()
	if s.notifier == nil {
		return
	}
	ev := models.ChangeEvent{
		EventID:  uuid.NewString(),
		Action:   action,
		Kind:     kind,
		RecordID: id,
		At:       s.now().UTC(),
	}
	if err := s.notifier.Publish(ctx, ev); err != nil {
		logger.Warn(ctx, "Change event publish failed", "error", err, "action", action)
	}
}
