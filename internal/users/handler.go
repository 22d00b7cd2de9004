package users

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"match-portal/match-portal-backend/internal/auth"
	"match-portal/match-portal-backend/internal/notify/locales"
)

// Handler exposes the authenticated user's profile and preferences
type Handler struct {
	repo    Repository
	locales *locales.Locales
}

// NewHandler creates the profile HTTP handler
func NewHandler(repo Repository, bundle *locales.Locales) *Handler {
	return &Handler{repo: repo, locales: bundle}
}

// RegisterRoutes wires the profile endpoints into a router group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.GetProfile)
	r.PUT("/profile/language", h.UpdateLanguage)
}

// languageRequest is the language-preference request body
type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

func (h *Handler) GetProfile(c *gin.Context) {
	actorID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	user, err := h.repo.GetByID(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateLanguage sets the locale used for the user's notifications. Only
// languages with an embedded translation are accepted.
func (h *Handler) UpdateLanguage(c *gin.Context) {
	actorID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lang := strings.ToLower(strings.TrimSpace(req.Language))
	if !h.locales.IsSupported(lang) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":               "unsupported language",
			"supported_languages": h.locales.Supported(),
		})
		return
	}
	if err := h.repo.UpdateLanguage(c.Request.Context(), actorID, lang); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"language": lang})
}
