// Package server это необязательный диагностический HTTP-сервер моста.
//
// Он НЕ является частью протокола контроллера (тот живет на TCP-сокете
// моста) и строго read-only: смотреть можно, вмешиваться нельзя.
// Поднимается только если задан PB_DEBUG_HTTP_PORT.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Profiling

	"github.com/Belzedar94/PokeBot/internal/bridge"
	"github.com/Belzedar94/PokeBot/internal/version"
	"github.com/Belzedar94/PokeBot/pkg/logger"
)

type Server struct {
	Bridge *bridge.Service
	Port   int
}

func New(b *bridge.Service, port int) *Server {
	return &Server{
		Bridge: b,
		Port:   port,
	}
}

// Run запускает HTTP сервер (блокирующий вызов).
func (s *Server) Run() error {
	mux := http.DefaultServeMux

	// Регистрируем роуты
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/ws", s.handleWS)

	debugHandler := NewDebugHandler(s.Bridge)
	debugHandler.RegisterRoutes(mux)

	logger.Log.Infof("🔍 Bridge debug server running on :%d", s.Port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.Port), mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}
