package network

import (
	"sync"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

// Broadcaster занимается только рассылкой событий подписчикам.
//
// Это ДОПОЛНИТЕЛЬНЫЙ канал наблюдения (live-лента для debug-вьюеров):
// он никогда не опустошает очередь событий и не влияет на то, что
// получит контроллер по команде "events".
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SubscriberID -> Личный канал
	subscribers map[string]chan api.Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.Event),
	}
}

// Register создает личный канал для подписчика (websocket-вьюера).
func (b *Broadcaster) Register(id string) chan api.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.Event, 100)
	b.subscribers[id] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Publish отправляет событие всем подписчикам.
// Медленный подписчик события теряет (неблокирующая отправка):
// тормозить кадр хоста из-за вьюера нельзя.
func (b *Broadcaster) Publish(e api.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
