package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/istiaq-ahsan/soloSphere-server/internal/api/dto"
)

// SessionHandler issues and clears the session cookie
type SessionHandler struct {
	logger   *slog.Logger
	sessions SessionIssuer
}

func NewSessionHandler(deps *Dependencies) *SessionHandler {
	return &SessionHandler{
		logger:   deps.Logger,
		sessions: deps.Sessions,
	}
}

// Issue handles POST /jwt
func (h *SessionHandler) Issue(c *gin.Context) {
	var req dto.IssueSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err, "Invalid request body")
		return
	}

	token, identity, err := h.sessions.Issue(req.Email)
	if err != nil {
		h.logger.Error("Failed to issue session", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue session"})
		return
	}

	h.sessions.SetCookie(c, token)
	h.logger.Info("Session issued",
		slog.String("email", identity.Email),
		slog.Time("expires_at", identity.ExpiresAt),
	)

	c.JSON(http.StatusOK, dto.SessionResponse{Success: true})
}

// Logout handles GET /logout
func (h *SessionHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.JSON(http.StatusOK, dto.SessionResponse{Success: true})
}
