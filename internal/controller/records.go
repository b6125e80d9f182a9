package controller

import (
	"net/http"

	"pocketdesk/internal/models"

	"github.com/gin-gonic/gin"
)

type taskBody struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Date        string `json:"date"`
	Alarm       bool   `json:"alarm"`
}

type noteBody struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
	Locked      bool   `json:"locked"`
}

// ListTasks returns the filtered, sorted task view.
func (h *Handler) ListTasks(c *gin.Context) {
	v, ok := h.viewFromQuery(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.app.ProjectTasks(v))
}

func (h *Handler) CreateTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	t, err := h.app.Store.CreateTask(c.Request.Context(), body.Title, body.Description, body.Date, body.Alarm)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateTask edits title, description and date. An unknown id is not an
// error; the response says nothing was updated.
func (h *Handler) UpdateTask(c *gin.Context) {
	var body taskBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	id := c.Param("id")
	updated, err := h.app.Store.EditTask(c.Request.Context(), id, body.Title, body.Description, body.Date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "updated": updated})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	h.deleteRecord(c, models.KindTask)
}

// ListNotes returns the filtered, sorted note view with locked content
// withheld.
func (h *Handler) ListNotes(c *gin.Context) {
	v, ok := h.viewFromQuery(c)
	if !ok {
		return
	}
	notes := h.app.ProjectNotes(v)
	for i := range notes {
		notes[i] = notes[i].Redacted()
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) CreateNote(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	n, err := h.app.Store.CreateNote(c.Request.Context(), body.Title, body.Description, body.Locked)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n.Redacted())
}

func (h *Handler) UpdateNote(c *gin.Context) {
	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	id := c.Param("id")
	updated, err := h.app.Store.EditNote(c.Request.Context(), id, body.Title, body.Description, body.Locked)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "updated": updated})
}

func (h *Handler) DeleteNote(c *gin.Context) {
	h.deleteRecord(c, models.KindNote)
}

// UnlockNote checks the PIN and returns the note with its content.
func (h *Handler) UnlockNote(c *gin.Context) {
	var body struct {
		PIN string `json:"pin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	n, found, err := h.app.Unlock(c.Param("id"), body.PIN)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
