package handler

import (
	"encoding/json"
	"net/http"

	"github.com/numduel/numduel/internal/api/apierr"
	"github.com/numduel/numduel/internal/api/response"
	"github.com/numduel/numduel/internal/services/session"
)

// SessionHandler serves the HTTP session surface: code creation and the
// open-session lobby listing. Joining and playing happen over the websocket.
type SessionHandler struct {
	sessions *session.Controller
}

// NewSessionHandler creates a SessionHandler
func NewSessionHandler(sessions *session.Controller) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type createSessionRequest struct {
	DisplayName string `json:"displayName"`
}

// Create generates a collision-checked session code. The session itself is
// registered when its creator joins over the websocket.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.DisplayName == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("displayName is required"))
		return
	}

	id, err := h.sessions.NewSessionID(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreatedSession{SessionID: string(id)})
}

// List returns sessions still awaiting a second player
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	open, err := h.sessions.ListOpen(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OpenSessionListFromModel(open))
}
