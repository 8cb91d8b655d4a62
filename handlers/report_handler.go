package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/knobel-manager/models"
	"github.com/Dosada05/knobel-manager/services"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetTablePlan godoc
// @Summary Данные плана столов
// @Tags reports
// @Description Полностью разрешённые данные для печати плана столов и листов очков.
// @Produce json
// @Param gameID path int true "Game ID"
// @Success 200 {object} map[string]interface{} "Отчёт"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Failure 422 {object} map[string]string "Стол ссылается на неизвестного игрока"
// @Router /games/{gameID}/reports/table-plan [get]
func (h *ReportHandler) GetTablePlan(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.reportService.TablePlan(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"report": report,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetRankings godoc
// @Summary Данные рейтинга
// @Tags reports
// @Description Перед расчётом загружает столы раундов; раунды, которые не удалось загрузить, пропускаются.
// @Produce json
// @Param gameID path int true "Game ID"
// @Param round query int false "Номер раунда"
// @Success 200 {object} map[string]interface{} "Отчёт"
// @Failure 404 {object} map[string]string "Игра или раунд не найдены"
// @Router /games/{gameID}/reports/rankings [get]
func (h *ReportHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.reportService.Rankings(r.Context(), gameID, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"report": report,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportReport godoc
// @Summary Выгрузить отчёт в хранилище
// @Tags reports
// @Produce json
// @Param gameID path int true "Game ID"
// @Param kind path string true "table-plan или rankings"
// @Param round query int false "Номер раунда (только для rankings)"
// @Success 201 {object} map[string]interface{} "Ключ и публичный URL"
// @Failure 503 {object} map[string]string "Хранилище не настроено"
// @Security BearerAuth
// @Router /games/{gameID}/reports/{kind}/export [post]
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
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
	kind := models.ReportKind(chi.URLParam(r, "kind"))

	result, err := h.reportService.Export(r.Context(), gameID, kind, round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"export": result,
	}

	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
