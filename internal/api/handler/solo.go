package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/numduel/numduel/internal/api/apierr"
	"github.com/numduel/numduel/internal/api/response"
	"github.com/numduel/numduel/internal/services/solo"
)

// SoloHandler serves single-player games over plain HTTP. No websocket is
// involved: with one player there is nothing to push.
type SoloHandler struct {
	solo *solo.Service
}

// NewSoloHandler creates a SoloHandler
func NewSoloHandler(soloService *solo.Service) *SoloHandler {
	return &SoloHandler{solo: soloService}
}

type createSoloRequest struct {
	PlayerName string `json:"playerName"`
}

type soloGuessRequest struct {
	Digits []int `json:"digits"`
}

// Create starts a new game against a random secret
func (h *SoloHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSoloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}
	if req.PlayerName == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("playerName is required"))
		return
	}

	game := h.solo.Start(req.PlayerName)
	response.JSON(w, http.StatusCreated, response.SoloGameFromModel(game))
}

// Get returns the current game state
func (h *SoloHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.solo.Get(gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SoloGameFromModel(game))
}

// Guess scores a guess and, on a win, attaches the end-of-game summary
func (h *SoloHandler) Guess(w http.ResponseWriter, r *http.Request) {
	var req soloGuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid JSON body"))
		return
	}

	record, game, err := h.solo.Guess(gameID(r), req.Digits)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	result := response.SoloGuessResult{
		Guess:    record.Guess,
		Feedback: record.Feedback,
		Won:      game.Won,
	}
	if game.Over() {
		summary := h.solo.Summarize(game)
		result.Summary = &summary
		h.solo.Remove(game.ID)
	}

	response.JSON(w, http.StatusOK, result)
}

// Forfeit ends the game and reveals the secret in the summary
func (h *SoloHandler) Forfeit(w http.ResponseWriter, r *http.Request) {
	game, err := h.solo.Forfeit(gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	summary := h.solo.Summarize(game)
	h.solo.Remove(game.ID)

	response.JSON(w, http.StatusOK, response.SoloForfeitResult{Summary: summary})
}

func gameID(r *http.Request) solo.GameID {
	return solo.GameID(mux.Vars(r)["gameId"])
}
