// Package detect синтезирует доменные события из снимков состояния
// и хранит их в ограниченной очереди до запроса контроллера.
package detect

import (
	"sync"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

// DefaultQueueCapacity предел очереди событий.
// Контроллер, который не опрашивает "events", теряет старые события.
const DefaultQueueCapacity = 200

// Queue это ограниченный FIFO-буфер событий.
// При переполнении вытесняется САМОЕ СТАРОЕ событие.
//
// Очередь защищена мьютексом: в нее пишут и polling-детектор
// (кооперативный кадр), и хуки перехвата (произвольный поток хоста).
type Queue struct {
	mu       sync.Mutex
	events   []api.Event
	capacity int
}

// NewQueue создает очередь. capacity <= 0 означает предел по умолчанию.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{
		events:   make([]api.Event, 0, capacity),
		capacity: capacity,
	}
}

// Push добавляет событие в хвост, вытесняя голову при переполнении.
func (q *Queue) Push(e api.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) >= q.capacity {
		// Сдвигаем на место головы, чтобы не наращивать backing array.
		copy(q.events, q.events[1:])
		q.events[len(q.events)-1] = e
		return
	}
	q.events = append(q.events, e)
}

// Drain атомарно возвращает ВСЕ накопленные события и опустошает очередь.
// Ни одно событие не может оказаться и возвращенным, и оставленным.
// Всегда возвращает не-nil срез (протоколу нужен [], а не null).
func (q *Queue) Drain() []api.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]api.Event, len(q.events))
	copy(out, q.events)
	q.events = q.events[:0]
	return out
}

// Len возвращает текущее количество событий.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Peek возвращает копию до n последних событий, НЕ опустошая очередь.
// Используется только диагностическим HTTP-сервером.
func (q *Queue) Peek(n int) []api.Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if n <= 0 || n > len(q.events) {
		n = len(q.events)
	}
	out := make([]api.Event, n)
	copy(out, q.events[len(q.events)-n:])
	return out
}
