package handlers

import (
	"net/http"

	"github.com/pitchside/matchday/middleware"
	"github.com/pitchside/matchday/services"
)

type MatchHandler struct {
	resultService services.ResultService
}

func NewMatchHandler(resultService services.ResultService) *MatchHandler {
	return &MatchHandler{resultService: resultService}
}

func (h *MatchHandler) ReportResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	var input services.ResultInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	match, err := h.resultService.Report(r.Context(), matchID, userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}); err != nil {
		serverErrorResponse(w, err)
	}
}
