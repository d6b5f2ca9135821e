package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Belzedar94/PokeBot/internal/bridge"
)

// DebugHandler предоставляет read-only доступ к внутреннему состоянию моста
type DebugHandler struct {
	Bridge *bridge.Service
}

func NewDebugHandler(b *bridge.Service) *DebugHandler {
	return &DebugHandler{Bridge: b}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/bridge", h.handleBridge)
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/queue", h.handleQueue)
}

// /debug/bridge - сводка: кадры, слушатель, сессии, хуки
func (h *DebugHandler) handleBridge(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Bridge.Debug())
}

// /debug/state - свежий снимок состояния хоста
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Bridge.DebugSnapshot())
}

// /debug/queue?n=20 - хвост очереди событий БЕЗ ее опустошения.
// Очередь контроллера от подглядывания не страдает.
func (h *DebugHandler) handleQueue(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(r.URL.Query().Get("n"))

	type queueView struct {
		Events any `json:"events"`
	}
	writeJSON(w, queueView{Events: h.Bridge.QueuePeek(n)})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
