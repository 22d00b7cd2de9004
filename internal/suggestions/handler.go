package suggestions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"match-portal/match-portal-backend/internal/auth"
)

// Handler exposes the suggestion operations over HTTP
type Handler struct {
	service Service
}

// NewHandler creates the suggestion HTTP handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the suggestion endpoints into a router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/suggestions", h.Create)
	r.GET("/suggestions", h.List)
	r.GET("/suggestions/:id", h.Get)
	r.GET("/suggestions/:id/history", h.History)
	r.GET("/suggestions/:id/actions", h.Actions)
	r.POST("/suggestions/:id/status", h.Transition)
	r.PATCH("/suggestions/:id/notes", h.UpdateNotes)
}

// transitionRequest is the status-change request body
type transitionRequest struct {
	Status        string   `json:"status" binding:"required"`
	Notes         string   `json:"notes"`
	NotifyParties []string `json:"notify_parties"`
	CustomMessage string   `json:"custom_message"`
}

func (h *Handler) Create(c *gin.Context) {
	actorID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req CreateSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.MatchmakerID = actorID

	suggestion, err := h.service.CreateSuggestion(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, suggestion)
}

func (h *Handler) List(c *gin.Context) {
	actorID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	list, err := h.service.ListSuggestions(c.Request.Context(), actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Get(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}
	suggestion, err := h.service.GetSuggestion(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !suggestion.IsParticipant(actorID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this suggestion"})
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (h *Handler) History(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}
	suggestion, err := h.service.GetSuggestion(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if actorID != suggestion.MatchmakerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "history is matchmaker-only"})
		return
	}
	history, err := h.service.GetHistory(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *Handler) Actions(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}
	actions, err := h.service.GetActions(c.Request.Context(), id, actorID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, actions)
}

func (h *Handler) Transition(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newStatus, err := ParseStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roles := make([]ParticipantRole, 0, len(req.NotifyParties))
	for _, p := range req.NotifyParties {
		roles = append(roles, ParticipantRole(p))
	}
	opts := TransitionOptions{
		Notes:         req.Notes,
		NotifyParties: roles,
		CustomMessage: req.CustomMessage,
	}
	suggestion, err := h.service.TransitionStatus(c.Request.Context(), id, actorID, newStatus, opts)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

func (h *Handler) UpdateNotes(c *gin.Context) {
	id, actorID, ok := h.idAndActor(c)
	if !ok {
		return
	}
	var update NotesUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	suggestion, err := h.service.UpdateNotes(c.Request.Context(), id, actorID, update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}

// idAndActor parses the path id and the authenticated actor, writing the
// error response itself when either is missing.
func (h *Handler) idAndActor(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	actorID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid suggestion id"})
		return uuid.Nil, uuid.Nil, false
	}
	return id, actorID, true
}

// writeError maps domain errors onto HTTP statuses
func writeError(c *gin.Context, err error) {
	var invalid *InvalidTransitionError
	var unauthorized *UnauthorizedTransitionError
	var notesDenied *NotesPermissionError
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
	case errors.As(err, &invalid):
		allowed := make([]string, 0, len(invalid.Allowed))
		for _, s := range invalid.Allowed {
			allowed = append(allowed, string(s))
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":            err.Error(),
			"allowed_statuses": allowed,
		})
	case errors.As(err, &unauthorized), errors.As(err, &notesDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
