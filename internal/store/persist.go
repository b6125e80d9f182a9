package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"pocketdesk/internal/kv"
	"pocketdesk/internal/models"
	"pocketdesk/pkg/logger"
)

// Persisted keys.
const (
	KeyTasks = "tasks"
	KeyNotes = "notes"
	KeyPIN   = "pin"
	KeyTheme = "theme"
)

type snapshot struct {
	gen      uint64
	wipe     bool
	wipeGen  uint64
	wipeOnly bool
	tasks    []models.Task
	notes    []models.Note
	pin      string
	dark     bool
}

// Load reads tasks, notes, PIN and theme from the backend. Absent keys keep
// their defaults; unreadable or malformed values are logged and skipped.
// Concurrent calls share one read.
func (s *Store) Load(ctx context.Context) {
	_, _, _ = s.loadGroup.Do("load", func() (interface{}, error) {
		s.load(ctx)
		return nil, nil
	})
}

func (s *Store) load(ctx context.Context) {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	// A reload must not drop changes that have not reached the backend yet.
	if err := s.flushLocked(ctx, false); err != nil {
		logger.Error(ctx, "Flush before reload failed", "error", err)
	}
	s.mu.RLock()
	genBefore, wasLoaded, dirty := s.gen, s.loaded, s.gen != s.savedGen
	s.mu.RUnlock()
	if wasLoaded && dirty {
		logger.Warn(ctx, "Reload skipped, unsaved changes could not be flushed")
		return
	}

	var (
		tasks []models.Task
		notes []models.Note
		pin   string
		dark  bool
	)
	var g errgroup.Group
	g.Go(func() error {
		if raw, ok := s.read(ctx, KeyTasks); ok {
			if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
				logger.Error(ctx, "Malformed persisted tasks", "error", err)
				tasks = nil
			}
		}
		return nil
	})
	g.Go(func() error {
		if raw, ok := s.read(ctx, KeyNotes); ok {
			if err := json.Unmarshal([]byte(raw), &notes); err != nil {
				logger.Error(ctx, "Malformed persisted notes", "error", err)
				notes = nil
			}
		}
		return nil
	})
	g.Go(func() error {
		if raw, ok := s.read(ctx, KeyPIN); ok {
			pin = raw
		}
		return nil
	})
	g.Go(func() error {
		if raw, ok := s.read(ctx, KeyTheme); ok {
			if err := json.Unmarshal([]byte(raw), &dark); err != nil {
				logger.Error(ctx, "Malformed persisted theme", "error", err)
				dark = false
			}
		}
		return nil
	})
	_ = g.Wait()

	if tasks == nil {
		tasks = []models.Task{}
	}
	if notes == nil {
		notes = []models.Note{}
	}

	s.mu.Lock()
	if wasLoaded && s.gen != genBefore {
		// Memory is the source of truth; keep the newer in-memory state.
		s.mu.Unlock()
		logger.Warn(ctx, "Reload skipped, state changed while reading")
		return
	}
	s.tasks = tasks
	s.notes = notes
	s.pin = pin
	s.dark = dark
	s.lastID = max(s.lastID, maxNumericID(tasks, notes))
	s.savedGen = s.gen
	s.wipePending = false
	s.loaded = true
	s.mu.Unlock()

	logger.Info(ctx, "Store loaded", "tasks", len(tasks), "notes", len(notes), "pin_set", pin != "")
}

func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return "", false
	}
	if err != nil {
		logger.Error(ctx, "Persisted key read failed", "error", err, "key", key)
		return "", false
	}
	return raw, true
}

func maxNumericID(tasks []models.Task, notes []models.Note) int64 {
	var hi int64
	for _, t := range tasks {
		if n, err := strconv.ParseInt(t.ID, 10, 64); err == nil && n > hi {
			hi = n
		}
	}
	for _, n := range notes {
		if v, err := strconv.ParseInt(n.ID, 10, 64); err == nil && v > hi {
			hi = v
		}
	}
	return hi
}

// Save writes the full current state: both collections, the theme flag and
// the PIN, deleting the PIN key when no PIN is set.
func (s *Store) Save(ctx context.Context) error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	return s.flushLocked(ctx, true)
}

// flushLocked writes the state as it is now, so a later flush never loses to
// an older one. Without force it skips when nothing changed since the last
// successful write. Callers hold ioMu.
func (s *Store) flushLocked(ctx context.Context, force bool) error {
	s.mu.RLock()
	if !s.loaded || (!force && s.gen == s.savedGen) {
		s.mu.RUnlock()
		return nil
	}
	snap := snapshot{
		gen:      s.gen,
		wipe:     s.wipePending,
		wipeGen:  s.wipeGen,
		wipeOnly: s.wipePending && s.gen == s.wipeGen,
		tasks:    slices.Clone(s.tasks),
		notes:    slices.Clone(s.notes),
		pin:      s.pin,
		dark:     s.dark,
	}
	s.mu.RUnlock()

	if err := s.write(ctx, snap); err != nil {
		return err
	}

	s.mu.Lock()
	if snap.gen > s.savedGen {
		s.savedGen = snap.gen
	}
	if snap.wipe && s.wipeGen == snap.wipeGen {
		s.wipePending = false
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) write(ctx context.Context, snap snapshot) error {
	if snap.wipe {
		if err := s.kv.Clear(ctx); err != nil {
			return fmt.Errorf("clear persisted state: %w", err)
		}
		if snap.wipeOnly {
			return nil
		}
	}

	tasks, err := json.Marshal(snap.tasks)
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	notes, err := json.Marshal(snap.notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	theme, _ := json.Marshal(snap.dark)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.kv.Set(gctx, KeyTasks, string(tasks)) })
	g.Go(func() error { return s.kv.Set(gctx, KeyNotes, string(notes)) })
	g.Go(func() error { return s.kv.Set(gctx, KeyTheme, string(theme)) })
	g.Go(func() error {
		if snap.pin == "" {
			return s.kv.Delete(gctx, KeyPIN)
		}
		return s.kv.Set(gctx, KeyPIN, snap.pin)
	})
	return g.Wait()
}

// Start runs the background saver until ctx is done or Close is called.
// Each change schedules one flush; changes that arrive while a flush is
// pending are folded into it.
func (s *Store) Start(ctx context.Context) {
	s.lifeMu.Lock()
	defer s.lifeMu.Unlock()
	if s.stop != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.stop = cancel
	s.stopped = make(chan struct{})
	go s.saveLoop(ctx, s.stopped)
}

func (s *Store) saveLoop(ctx context.Context, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.kick:
		}
		if s.saveDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.saveDelay):
			}
		}
		s.ioMu.Lock()
		err := s.flushLocked(ctx, false)
		s.ioMu.Unlock()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "Background save failed", "error", err)
		}
	}
}

// Close stops the saver and writes any pending changes.
func (s *Store) Close(ctx context.Context) error {
	s.lifeMu.Lock()
	stop, stopped := s.stop, s.stopped
	s.lifeMu.Unlock()
	if stop != nil {
		stop()
		<-stopped
	}
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	return s.flushLocked(ctx, false)
}

func (s *Store) requestSave() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}
