package handlers

import (
	"net/http"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/selectors"
	"github.com/Dosada05/knobel-manager/services"
)

type ScoreHandler struct {
	scoreService services.ScoreService
	selectors    *selectors.Selectors
}

func NewScoreHandler(ss services.ScoreService, sel *selectors.Selectors) *ScoreHandler {
	return &ScoreHandler{
		scoreService: ss,
		selectors:    sel,
	}
}

type updateScoresRequest struct {
	Scores []models.ScoreInput `json:"scores"`
}

// ListTablesOfRound godoc
// @Summary Столы раунда
// @Tags scores
// @Description Загружает столы раунда с удалённого API и возвращает их с разрешёнными очками.
// @Produce json
// @Param gameID path int true "Game ID"
// @Param roundNumber path int true "Номер раунда"
// @Success 200 {object} map[string]interface{} "Столы раунда"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Failure 502 {object} map[string]string "Ошибка удалённого API"
// @Router /games/{gameID}/rounds/{roundNumber}/tables [get]
func (h *ScoreHandler) ListTablesOfRound(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roundNumber, err := getIDFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.scoreService.LoadRoundTables(r.Context(), gameID, roundNumber); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"tables": h.selectors.TablesOfRound(gameID, roundNumber),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateScores godoc
// @Summary Записать очки стола
// @Tags scores
// @Description Очки сразу видны в хранилище как предварительные; при ошибке удалённого API стол возвращается в прежнее состояние.
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param roundNumber path int true "Номер раунда"
// @Param tableNumber path int true "Номер стола"
// @Param body body updateScoresRequest true "Очки игроков"
// @Success 200 {object} map[string]interface{} "Подтверждённый стол"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Стол не найден"
// @Failure 502 {object} map[string]string "Ошибка удалённого API, изменения откатаны"
// @Security BearerAuth
// @Router /games/{gameID}/rounds/{roundNumber}/tables/{tableNumber}/scores [put]
func (h *ScoreHandler) UpdateScores(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roundNumber, err := getIDFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tableNumber, err := getIDFromURL(r, "tableNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input updateScoresRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	table, err := h.scoreService.UpdateScores(r.Context(), gameID, roundNumber, tableNumber, input.Scores)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"table": table,
	}
	for _, view := range h.selectors.TablesOfRound(gameID, roundNumber) {
		if view.TableID == table.ID {
			response["table"] = view
			break
		}
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
