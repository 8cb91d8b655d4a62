package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/Dosada05/knobel-manager/realtime"
	"github.com/Dosada05/knobel-manager/selectors"
	"github.com/Dosada05/knobel-manager/services"
)

type WebSocketHandler struct {
	hub       *realtime.Hub
	selectors *selectors.Selectors
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewWebSocketHandler accepts connections from the given origins; "*" allows any.
func NewWebSocketHandler(hub *realtime.Hub, sel *selectors.Selectors, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:       hub,
		selectors: sel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // не браузер
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// ServeLobby godoc
// @Summary События всех игр
// @Tags websocket
// @Description WebSocket: каждое изменение хранилища приходит как {"type", "payload", "room_id"}.
// @Router /ws/games [get]
func (h *WebSocketHandler) ServeLobby(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, realtime.LobbyRoom)
}

// ServeGame godoc
// @Summary События одной игры
// @Tags websocket
// @Param gameID path int true "Game ID"
// @Failure 404 {object} map[string]string "Игра не найдена"
// @Router /ws/games/{gameID} [get]
func (h *WebSocketHandler) ServeGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, ok := h.selectors.GameByID(gameID); !ok {
		notFoundResponse(w, r, services.ErrGameNotFound)
		return
	}
	h.serve(w, r, realtime.RoomForGame(gameID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту
		h.logger.Warn("Failed to upgrade websocket connection", slog.String("room", room), slog.Any("error", err))
		return
	}

	client := realtime.NewClient(h.hub, conn, room)
	if !h.hub.Join(client) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("Websocket client connected", slog.String("client_id", client.ID), slog.String("room", room))
}
