package handlers

import (
	"net/http"

	"github.com/Dosada05/knobel-manager/store"
)

type DebugHandler struct {
	store *store.EntityStore
}

func NewDebugHandler(s *store.EntityStore) *DebugHandler {
	return &DebugHandler{store: s}
}

// DumpStore godoc
// @Summary Дамп локального хранилища
// @Tags debug
// @Description Собирает нормализованное хранилище обратно во вложенный формат удалённого API.
// @Produce json
// @Success 200 {object} models.GamesPayload "Вложенный список игр"
// @Security BearerAuth
// @Router /debug/store [get]
func (h *DebugHandler) DumpStore(w http.ResponseWriter, r *http.Request) {
	payload := store.Denormalize(h.store.Export())

	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
