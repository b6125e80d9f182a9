package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetPIN(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"configured": h.app.Gate.Configured()})
}

// RegisterPIN sets the first PIN. Once one exists it can only be changed
// with the old value.
func (h *Handler) RegisterPIN(c *gin.Context) {
	var body struct {
		PIN string `json:"pin" binding:"required,numeric,min=4"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "PIN must be at least 4 digits", "code": "validation"})
		return
	}
	if h.app.Gate.Configured() {
		c.JSON(http.StatusConflict, gin.H{"error": "PIN already configured", "code": "pin_exists"})
		return
	}
	if err := h.app.Gate.Register(c.Request.Context(), body.PIN); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"configured": true})
}

func (h *Handler) ChangePIN(c *gin.Context) {
	var body struct {
		Old string `json:"old" binding:"required"`
		New string `json:"new" binding:"required,numeric,min=4"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error(), "code": "validation"})
		return
	}
	if !h.app.Gate.Change(c.Request.Context(), body.Old, body.New) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Incorrect PIN", "code": "incorrect_pin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": true})
}
