package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/selectors"
	"github.com/Dosada05/knobel-manager/services"
)

type GameHandler struct {
	gameService services.GameService
	selectors   *selectors.Selectors
}

func NewGameHandler(gs services.GameService, sel *selectors.Selectors) *GameHandler {
	return &GameHandler{
		gameService: gs,
		selectors:   sel,
	}
}

// ListGames godoc
// @Summary Список игр
// @Tags games
// @Description Возвращает все игры из локального хранилища в порядке загрузки.
// @Produce json
// @Success 200 {object} map[string]interface{} "Список игр"
// @Router /games [get]
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	response := jsonResponse{
		"games": h.selectors.AllGames(),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SyncGames godoc
// @Summary Синхронизировать игры
// @Tags games
// @Description Загружает список игр с удалённого API и заменяет им локальное хранилище.
// @Produce json
// @Success 200 {object} map[string]interface{} "Актуальный список игр"
// @Failure 502 {object} map[string]string "Ошибка удалённого API"
// @Security BearerAuth
// @Router /games/sync [post]
func (h *GameHandler) SyncGames(w http.ResponseWriter, r *http.Request) {
	if err := h.gameService.Refresh(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"games": h.selectors.AllGames(),
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateGame godoc
// @Summary Создать игру
// @Tags games
// @Accept json
// @Produce json
// @Param body body models.GameInput true "Название и размеры игры"
// @Success 201 {object} map[string]interface{} "Игра создана"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 502 {object} map[string]string "Ошибка удалённого API"
// @Security BearerAuth
// @Router /games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input models.GameInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.gameService.CreateGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"game": game,
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetGameByID godoc
// @Summary Получить игру по ID
// @Tags games
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} map[string]interface{} "Игра найдена"
// @Failure 400 {object} map[string]string "Некорректный ID"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Router /games/{gameID} [get]
func (h *GameHandler) GetGameByID(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, ok := h.selectors.GameByID(gameID)
	if !ok {
		notFoundResponse(w, r, services.ErrGameNotFound)
		return
	}

	response := jsonResponse{
		"game": game,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateGame godoc
// @Summary Обновить игру
// @Tags games
// @Description Частичное обновление: переданные поля меняются, остальные остаются прежними.
// @Accept json
// @Produce json
// @Param gameID path int true "Game ID"
// @Param body body models.GameUpdate true "Изменяемые поля"
// @Success 200 {object} map[string]interface{} "Игра обновлена"
// @Failure 400 {object} map[string]string "Ошибка валидации"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Failure 422 {object} map[string]string "Недопустимый переход статуса"
// @Security BearerAuth
// @Router /games/{gameID} [patch]
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input models.GameUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.Name == nil && input.TeamSize == nil && input.TableSize == nil &&
		input.NumberOfRounds == nil && input.Status == nil {
		badRequestResponse(w, r, errors.New("no fields provided for update"))
		return
	}

	game, err := h.gameService.UpdateGame(r.Context(), gameID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"game": game,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteGame godoc
// @Summary Удалить игру
// @Tags games
// @Param gameID path int true "Game ID"
// @Success 204 "Игра удалена"
// @Failure 502 {object} map[string]string "Ошибка удалённого API"
// @Security BearerAuth
// @Router /games/{gameID} [delete]
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.DeleteGame(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetupGame godoc
// @Summary Сгенерировать раунды и столы
// @Tags games
// @Description Удалённый API распределяет игроков по столам; затем игра и список игр загружаются заново.
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} map[string]interface{} "Игра после генерации"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Failure 502 {object} map[string]string "Ошибка удалённого API"
// @Security BearerAuth
// @Router /games/{gameID}/setup [post]
func (h *GameHandler) SetupGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.gameService.SetupGame(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	game, ok := h.selectors.GameByID(gameID)
	if !ok {
		notFoundResponse(w, r, services.ErrGameNotFound)
		return
	}

	response := jsonResponse{
		"game": game,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRankings godoc
// @Summary Рейтинг игры
// @Tags games
// @Description Рейтинг игроков и команд по уже загруженным столам. С параметром round считается только этот раунд.
// @Produce json
// @Param gameID path int true "Game ID"
// @Param round query int false "Номер раунда"
// @Success 200 {object} map[string]interface{} "Рейтинг"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Router /games/{gameID}/rankings [get]
func (h *GameHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	round, err := getRoundFromQuery(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rankings, ok := h.selectors.RankingsForGame(gameID, round)
	if !ok {
		notFoundResponse(w, r, services.ErrGameNotFound)
		return
	}

	response := jsonResponse{
		"rankings": rankings,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
