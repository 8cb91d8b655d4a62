package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/knobel-manager/services"
)

type ActiveGameHandler struct {
	activeGameService services.ActiveGameService
}

func NewActiveGameHandler(as services.ActiveGameService) *ActiveGameHandler {
	return &ActiveGameHandler{activeGameService: as}
}

type setActiveGameRequest struct {
	GameID int `json:"gameId"`
}

// GetActiveGame godoc
// @Summary Активная игра
// @Tags active-game
// @Description activeGameId равен null, если игра не выбрана.
// @Produce json
// @Success 200 {object} map[string]interface{} "Выбранная игра"
// @Router /active-game [get]
func (h *ActiveGameHandler) GetActiveGame(w http.ResponseWriter, r *http.Request) {
	gameID, ok, err := h.activeGameService.Get(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"activeGameId": nil,
	}
	if ok {
		response["activeGameId"] = gameID
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SetActiveGame godoc
// @Summary Выбрать активную игру
// @Tags active-game
// @Accept json
// @Produce json
// @Param body body setActiveGameRequest true "ID игры"
// @Success 200 {object} map[string]interface{} "Выбранная игра"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Router /active-game [put]
func (h *ActiveGameHandler) SetActiveGame(w http.ResponseWriter, r *http.Request) {
	var input setActiveGameRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.GameID <= 0 {
		badRequestResponse(w, r, errors.New("gameId must be positive"))
		return
	}

	if err := h.activeGameService.Set(r.Context(), input.GameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"activeGameId": input.GameID,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ClearActiveGame godoc
// @Summary Сбросить активную игру
// @Tags active-game
// @Success 204 "Выбор сброшен"
// @Router /active-game [delete]
func (h *ActiveGameHandler) ClearActiveGame(w http.ResponseWriter, r *http.Request) {
	if err := h.activeGameService.Clear(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
