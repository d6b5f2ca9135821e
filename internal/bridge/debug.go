package bridge

import (
	"github.com/Belzedar94/PokeBot/internal/network"
	"github.com/Belzedar94/PokeBot/pkg/api"
)

// Read-only доступ к внутренностям моста для диагностического
// HTTP-сервера (internal/server). Все методы безопасны для вызова
// из чужой горутины и ничего не мутируют.

// SessionInfo сводка одной открытой сессии.
type SessionInfo struct {
	ID           string `json:"id"`
	Remote       string `json:"remote"`
	PendingBytes int    `json:"pending_bytes"`
}

// DebugInfo сводка состояния моста.
type DebugInfo struct {
	Frame      uint64        `json:"frame"`
	Listening  bool          `json:"listening"`
	Disabled   bool          `json:"disabled"`
	Addr       string        `json:"addr"`
	QueueLen   int           `json:"queue_len"`
	HookStored bool          `json:"hook_creature_stored"`
	HookBadge  bool          `json:"hook_badge_granted"`
	Sessions   []SessionInfo `json:"sessions"`
}

// Debug возвращает сводку. Берет кадровый мьютекс: вызов из
// HTTP-горутины может отложить один кадр хоста на микросекунды,
// для диагностики это приемлемо.
func (s *Service) Debug() DebugInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := DebugInfo{
		Frame:      s.frame,
		Listening:  s.started,
		Disabled:   s.disabled,
		Addr:       s.cfg.addr(),
		QueueLen:   s.queue.Len(),
		HookStored: s.hooked.CreatureStored,
		HookBadge:  s.hooked.BadgeGranted,
	}
	if s.ln != nil {
		info.Addr = s.ln.Addr().String()
	}
	for _, sess := range s.sessions {
		info.Sessions = append(info.Sessions, SessionInfo{
			ID:           sess.ID,
			Remote:       sess.RemoteAddr(),
			PendingBytes: sess.pending(),
		})
	}
	return info
}

// DebugSnapshot собирает свежий снимок состояния хоста.
func (s *Service) DebugSnapshot() *api.Snapshot {
	return s.snap.Take()
}

// QueuePeek возвращает до n последних событий БЕЗ опустошения очереди.
func (s *Service) QueuePeek(n int) []api.Event {
	return s.queue.Peek(n)
}

// Events возвращает live-рассылку событий для websocket-вьюеров.
func (s *Service) Events() *network.Broadcaster {
	return s.events
}

// Addr возвращает фактический адрес слушателя ("" - сокет не открыт).
// Нужен тестам и cmd при Port=0.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// SessionCount возвращает количество открытых сессий.
func (s *Service) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
