package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/Belzedar94/PokeBot/pkg/api"
	"github.com/Belzedar94/PokeBot/pkg/logger"
)

// dispatchLine обрабатывает ровно одну строку запроса и возвращает
// ровно одну JSON-строку ответа (без завершающего '\n').
//
// Любой сбой обработки - это ok:false ДЛЯ ЭТОЙ СТРОКИ: сессия
// остается открытой и тратится ровно одна единица бюджета команд.
func (s *Service) dispatchLine(line []byte) (out []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Error("Command handler panicked")
			out = encode(api.Response{OK: false, Error: fmt.Sprintf("handler: %v", r)})
		}
	}()

	var req api.Request
	if err := json.Unmarshal(line, &req); err != nil {
		return encode(api.Response{OK: false, Error: "invalid json"})
	}
	if err := req.Validate(); err != nil {
		return encode(api.Response{OK: false, Error: err.Error()})
	}

	if s.debugEnabled() {
		logger.Log.WithField("cmd", req.Cmd).Debug("dispatch")
	}

	switch req.Cmd {
	case "ping":
		return encode(api.PingResponse{Response: ok(), Pong: true})

	case "state":
		// Снимок собирается по запросу: аксессоры дешевые,
		// а контроллер всегда получает актуальное состояние.
		return encode(api.StateResponse{Response: ok(), State: s.snap.Take()})

	case "events":
		// Опустошение очереди - часть формирования ответа.
		return encode(api.EventsResponse{Response: ok(), Events: s.queue.Drain()})

	case "set":
		return s.handleSet(req)
	}

	// Недостижимо после Validate, но диспетчер обязан вернуть ответ всегда.
	return encode(api.Response{OK: false, Error: "unknown cmd"})
}

// handleSet меняет настройку моста на лету.
// Единственный поддерживаемый ключ - "debug" (bool).
func (s *Service) handleSet(req api.Request) []byte {
	if req.Key != "debug" {
		return encode(api.Response{OK: false, Error: "unknown key"})
	}

	var enabled bool
	if err := json.Unmarshal(req.Value, &enabled); err != nil {
		return encode(api.Response{OK: false, Error: "invalid json"})
	}

	s.setDebug(enabled)
	return encode(api.SetResponse{Response: ok(), Debug: enabled})
}

func ok() api.Response {
	return api.Response{OK: true}
}

// encode сериализует ответ. Отказ кодека на наших DTO практически
// невозможен, но контракт "ровно один ответ на запрос" нарушать
// нельзя даже тогда.
func encode(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		fallback, _ := json.Marshal(api.Response{OK: false, Error: "encode: " + err.Error()})
		return fallback
	}
	return data
}
