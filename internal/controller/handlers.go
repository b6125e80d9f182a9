package controller

import (
	"errors"
	"net/http"

	"pocketdesk/internal/app"
	"pocketdesk/internal/gate"
	"pocketdesk/internal/models"
	"pocketdesk/internal/query"
	"pocketdesk/internal/store"
	"pocketdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes the app over HTTP for a front end to render.
type Handler struct {
	app *app.App
}

func New(a *app.App) *Handler {
	return &Handler{app: a}
}

// Health returns 200 if the process is alive.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 once persisted state has been loaded.
func (h *Handler) Ready(c *gin.Context) {
	if !h.app.Store.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "loading"})
		return
	}
	c.String(http.StatusOK, "OK")
}

// confirmed reports whether the caller confirmed a destructive action.
// Without ?confirm=true the request is refused with 428.
func confirmed(c *gin.Context) bool {
	if c.Query("confirm") == "true" {
		return true
	}
	c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Confirmation required", "code": "confirm_required"})
	return false
}

// writeError maps domain errors to responses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required", "code": "validation"})
	case errors.Is(err, store.ErrPinRequired):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Register a PIN first", "code": "pin_required"})
	case errors.Is(err, gate.ErrIncorrectPin):
		c.JSON(http.StatusForbidden, gin.H{"error": "Incorrect PIN", "code": "incorrect_pin"})
	case errors.Is(err, gate.ErrNoPinConfigured):
		c.JSON(http.StatusConflict, gin.H{"error": "No PIN configured", "code": "no_pin"})
	case errors.Is(err, store.ErrNotLoaded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Still loading", "code": "loading"})
	default:
		logger.Error(c.Request.Context(), "Request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

// viewFromQuery starts from the shared view and applies ?q= and ?sort=.
func (h *Handler) viewFromQuery(c *gin.Context) (app.View, bool) {
	v := h.app.View()
	if q, ok := c.GetQuery("q"); ok {
		v.Query = q
	}
	if s, ok := c.GetQuery("sort"); ok {
		m := query.SortMode(s)
		if !m.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sort mode", "code": "validation"})
			return v, false
		}
		v.Sort = m
	}
	return v, true
}

func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dark": h.app.IsDark(), "palette": h.app.Theme()})
}

func (h *Handler) ToggleTheme(c *gin.Context) {
	dark, err := h.app.ToggleTheme(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dark": dark, "palette": models.PaletteFor(dark)})
}

func (h *Handler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view":       h.app.View(),
		"task_sorts": query.SortModesFor(models.KindTask),
		"note_sorts": query.SortModesFor(models.KindNote),
	})
}

func (h *Handler) SetView(c *gin.Context) {
	var body struct {
		Query *string `json:"query"`
		Sort  *string `json:"sort"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if body.Sort != nil {
		if err := h.app.SetSortMode(query.SortMode(*body.Sort)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation"})
			return
		}
	}
	if body.Query != nil {
		h.app.SetSearchQuery(*body.Query)
	}
	c.JSON(http.StatusOK, gin.H{"view": h.app.View()})
}

// ClearAll wipes everything; requires ?confirm=true.
func (h *Handler) ClearAll(c *gin.Context) {
	if !confirmed(c) {
		return
	}
	if err := h.app.Reset(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteRecord(c *gin.Context, kind models.Kind) {
	if !confirmed(c) {
		return
	}
	id := c.Param("id")
	removed, err := h.app.Store.Delete(c.Request.Context(), kind, id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": removed})
}
