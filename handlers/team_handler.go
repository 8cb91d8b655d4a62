package handlers

import (
	"net/http"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/selectors"
	"github.com/Dosada05/knobel-manager/services"
)

type TeamHandler struct {
	teamService services.TeamService
	selectors   *selectors.Selectors
}

func NewTeamHandler(ts services.TeamService, sel *selectors.Selectors) *TeamHandler {
	return &TeamHandler{
		teamService: ts,
		selectors:   sel,
	}
}

// ListTeamsOfGame godoc
// @Summary Команды игры
// @Tags teams
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} map[string]interface{} "Список команд"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Router /games/{gameID}/teams [get]
func (h *TeamHandler) ListTeamsOfGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, ok := h.selectors.GameByID(gameID); !ok {
		notFoundResponse(w, r, services.ErrGameNotFound)
		return
	}

	response := jsonResponse{
		"teams": h.selectors.AllTeamsOfGame(gameID),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTeam godoc
// @Summary Создать команду
// @Tags teams
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body models.TeamInput true "Название команды и имена игроков"
// @Success 201 {object} map[string]interface{} "Команда создана"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Security BearerAuth
// @Router /games/{gameID}/teams [post]
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.TeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team":    team,
		"players": h.selectors.AllPlayersOfTeam(team.ID),
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTeam godoc
// @Summary Переименовать команду
// @Tags teams
// @Accept json
// @Produce json
// @Param teamID path int true "Team ID"
// @Param body body models.TeamUpdate true "Новое название"
// @Success 200 {object} map[string]interface{} "Команда обновлена"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Security BearerAuth
// @Router /teams/{teamID} [patch]
func (h *TeamHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.TeamUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), teamID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"team": team,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteTeam godoc
// @Summary Удалить команду
// @Tags teams
// @Description Удаляет команду вместе с её игроками.
// @Param teamID path int true "Team ID"
// @Success 204 "Команда удалена"
// @Failure 404 {object} map[string]string "Команда не найдена"
// @Security BearerAuth
// @Router /teams/{teamID} [delete]
func (h *TeamHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), teamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPlayersOfTeam godoc
// @Summary Игроки команды
// @Tags teams
// @Produce json
// @Param teamID path int true "Team ID"
// @Success 200 {object} map[string]interface{} "Список игроков"
// @Router /teams/{teamID}/players [get]
func (h *TeamHandler) ListPlayersOfTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := getIDFromURL(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"players": h.selectors.AllPlayersOfTeam(teamID),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
