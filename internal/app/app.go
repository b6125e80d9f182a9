// Package app is the state container the presentation layer talks to: the
// record store, the PIN gate, and the view state (search query, sort mode)
// shared by the task and note screens.
package app

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"pocketdesk/internal/gate"
	"pocketdesk/internal/models"
	"pocketdesk/internal/query"
	"pocketdesk/internal/store"
)

// View is the current search query and sort mode.
type View struct {
	Query string         `json:"query"`
	Sort  query.SortMode `json:"sort"`
}

type App struct {
	Store *store.Store
	Gate  *gate.Gate

	lang language.Tag

	mu   sync.RWMutex
	view View
}

func New(st *store.Store, lang language.Tag) *App {
	return &App{
		Store: st,
		Gate:  gate.New(st),
		lang:  lang,
		view:  View{Sort: query.SortNewest},
	}
}

func (a *App) View() View {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view
}

func (a *App) SetSearchQuery(q string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.Query = q
}

// SetSortMode accepts the known modes; the empty mode means newest.
func (a *App) SetSortMode(m query.SortMode) error {
	if !m.Valid() {
		return fmt.Errorf("unknown sort mode %q", m)
	}
	if m == "" {
		m = query.SortNewest
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view.Sort = m
	return nil
}

// Tasks is the task collection filtered and sorted by the current view.
func (a *App) Tasks() []models.Task {
	v := a.View()
	return query.ProjectIn(a.lang, a.Store.Tasks(), v.Query, v.Sort)
}

// Notes is the note collection filtered and sorted by the current view.
func (a *App) Notes() []models.Note {
	v := a.View()
	return query.ProjectIn(a.lang, a.Store.Notes(), v.Query, v.Sort)
}

// ProjectTasks applies an explicit view instead of the shared one.
func (a *App) ProjectTasks(v View) []models.Task {
	return query.ProjectIn(a.lang, a.Store.Tasks(), v.Query, v.Sort)
}

func (a *App) ProjectNotes(v View) []models.Note {
	return query.ProjectIn(a.lang, a.Store.Notes(), v.Query, v.Sort)
}

func (a *App) IsDark() bool { return a.Store.IsDark() }

func (a *App) Theme() models.Palette {
	return models.PaletteFor(a.Store.IsDark())
}

func (a *App) ToggleTheme(ctx context.Context) (bool, error) {
	return a.Store.ToggleTheme(ctx)
}

// Unlock verifies pin for a locked note and returns the full note. Notes
// that are not locked are returned as they are.
func (a *App) Unlock(id, pin string) (models.Note, bool, error) {
	n, ok := a.Store.Note(id)
	if !ok {
		return models.Note{}, false, nil
	}
	r := a.Gate.Open(n)
	if err := r.Begin(); err != nil {
		return n.Redacted(), true, err
	}
	got, err := r.Submit(pin)
	r.Close()
	return got, true, err
}

// Reset wipes every record, the PIN and the theme, and puts the view back to
// its defaults.
func (a *App) Reset(ctx context.Context) error {
	if err := a.Store.ClearAll(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.view = View{Sort: query.SortNewest}
	a.mu.Unlock()
	return nil
}
