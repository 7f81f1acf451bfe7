package handlers

import (
	"net/http"

	"github.com/pitchside/matchday/middleware"
	"github.com/pitchside/matchday/services"
)

type BracketHandler struct {
	bracketService services.BracketService
	swapService    services.SwapService
}

func NewBracketHandler(bracketService services.BracketService, swapService services.SwapService) *BracketHandler {
	return &BracketHandler{
		bracketService: bracketService,
		swapService:    swapService,
	}
}

func (h *BracketHandler) GenerateBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	view, err := h.bracketService.Generate(r.Context(), tournamentID, userID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bracket": view}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *BracketHandler) GetBracketHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	view, err := h.bracketService.List(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"bracket": view}); err != nil {
		serverErrorResponse(w, err)
	}
}

func (h *BracketHandler) GetStandingsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}

	standings, err := h.bracketService.Standings(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}); err != nil {
		serverErrorResponse(w, err)
	}
}

type swapTeamsRequest struct {
	TeamAID int `json:"team_a_id"`
	TeamBID int `json:"team_b_id"`
}

func (h *BracketHandler) SwapTeamsHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	var input swapTeamsRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.swapService.SwapTeams(r.Context(), tournamentID, input.TeamAID, input.TeamBID, userID); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"swapped": true}); err != nil {
		serverErrorResponse(w, err)
	}
}
