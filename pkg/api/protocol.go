package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> МОСТ ---

// Request это корневой объект для всех запросов контроллера к мосту.
// Один запрос = одна строка JSON, завершенная '\n'.
type Request struct {
	// Cmd название команды: "ping" | "state" | "events" | "set".
	Cmd string `json:"cmd"`

	// Key имя настройки для команды "set". Сейчас поддерживается только "debug".
	Key string `json:"key,omitempty"`

	// Value значение настройки. Структура зависит от Key
	// (для "debug" это bool).
	Value json.RawMessage `json:"value,omitempty"`
}

// --- МОСТ -> КЛИЕНТ ---

// Response это базовая часть любого ответа моста.
// На каждый запрос приходит ровно один ответ, в порядке запросов.
type Response struct {
	// OK false означает ошибку обработки ИМЕННО ЭТОГО запроса.
	// Соединение при этом не рвется.
	OK bool `json:"ok"`

	// Error человекочитаемая причина ошибки ("invalid json", "unknown cmd", ...).
	// Присутствует только при OK=false.
	Error string `json:"error,omitempty"`
}

// PingResponse ответ на "ping".
type PingResponse struct {
	Response
	Pong bool `json:"pong"`
}

// StateResponse ответ на "state": полный снимок состояния игры.
type StateResponse struct {
	Response
	State *Snapshot `json:"state"`
}

// EventsResponse ответ на "events".
// Очередь опустошается в момент формирования ответа: повторный запрос
// сразу после первого вернет пустой список.
type EventsResponse struct {
	Response
	Events []Event `json:"events"`
}

// SetResponse ответ на "set" с key="debug".
type SetResponse struct {
	Response
	Debug bool `json:"debug"`
}

// --- СНИМОК СОСТОЯНИЯ ---

// Snapshot это "слепок" состояния игры в один момент времени.
// КАЖДОЕ поле может быть null: недоступность одного поля
// никогда не делает невалидными остальные.
type Snapshot struct {
	// T время снятия снимка, unix-секунды (с дробной частью).
	T float64 `json:"t"`

	// SceneName имя текущей сцены игры (e.g. "Scene_Map", "Scene_Battle").
	SceneName *string `json:"scene_name"`

	// MapID числовой ID текущей карты.
	MapID *int `json:"map_id"`

	// PlayerPosition позиция игрока в тайлах карты.
	PlayerPosition *Position `json:"player_position"`

	// PlayerDirection направление взгляда игрока (2=вниз, 4=влево, 6=вправо, 8=вверх).
	PlayerDirection *int `json:"player_direction"`

	// BadgeCount количество полученных значков.
	BadgeCount *int `json:"badge_count"`

	// Money деньги игрока.
	Money *int `json:"money"`

	// Party текущая команда. Пустой список, если команду прочитать не удалось.
	// Частично прочитанные (битые) участники в список не попадают.
	Party []PartyMember `json:"party"`

	// InBattle true, если игрок сейчас в бою.
	InBattle *bool `json:"in_battle"`

	// MessageText текст сообщения, отображаемого в игровом окне, если есть.
	MessageText *string `json:"message_text"`
}

// Position позиция на карте.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PartyMember это DTO одного существа в команде.
// Все поля независимо nullable, как и у Snapshot.
type PartyMember struct {
	// UID стабильный идентификатор существа между кадрами.
	// Берется из персистентного ID игры; если его нет, синтезируется
	// (слабая стабильность, см. snapshot.CreatureUID).
	UID *string `json:"uid"`

	Species   *string `json:"species"`
	Name      *string `json:"display_name"`
	Level     *int    `json:"level"`
	CurrentHP *int    `json:"current_hp"`
	MaxHP     *int    `json:"max_hp"`
	Status    *string `json:"status"`
}

// --- СОБЫТИЯ ---

// Типы событий (поле Event.Type).
const (
	EventBadgeEarned     = "badge_earned"
	EventPokemonAcquired = "pokemon_acquired"
	EventPokemonDeath    = "pokemon_death"
)

// Event это одно доменное событие, синтезированное мостом.
// События неизменяемы после создания.
type Event struct {
	// Type тип события (см. константы Event*).
	Type string `json:"type"`

	// T время обнаружения, unix-секунды.
	T float64 `json:"t"`

	// MapID карта, на которой событие было обнаружено.
	MapID *int `json:"map_id"`

	// BadgeCount новое количество значков (только для badge_earned).
	BadgeCount *int `json:"badge_count,omitempty"`

	// Поля существа (только для pokemon_acquired / pokemon_death).
	UID     *string `json:"uid,omitempty"`
	Species *string `json:"species,omitempty"`
	Name    *string `json:"name,omitempty"`
	Level   *int    `json:"level,omitempty"`
}
