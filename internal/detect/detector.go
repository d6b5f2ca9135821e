package detect

import (
	"sync"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

// Detector сравнивает последовательные снимки и порождает события.
//
// Вся память детектора (последний счетчик значков, набор uid команды,
// hp по uid) лежит под собственным мьютексом: кроме polling-цикла ее
// трогают хуки перехвата через NoteBadgeCount/NoteAcquired.
type Detector struct {
	mu   sync.Mutex
	emit func(api.Event)

	lastBadges *int
	lastUIDs   map[string]bool // nil до первого опроса команды
	lastHP     map[string]int
}

// NewDetector создает детектор. emit вызывается на каждое событие
// (обычно это Queue.Push плюс рассылка подписчикам).
func NewDetector(emit func(api.Event)) *Detector {
	return &Detector{
		emit:   emit,
		lastHP: make(map[string]int),
	}
}

// Observe прогоняет один цикл опроса над свежим снимком.
// Вызывается каждый N-й кадр, НЕ каждый кадр.
func (d *Detector) Observe(snap *api.Snapshot) {
	if snap == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.observeBadges(snap)
	d.observeRoster(snap)
	d.observeFainting(snap)
}

// observeBadges: событие только при СТРОГОМ росте относительно
// непосредственно предыдущего опроса. Запомненное значение всегда
// обновляется до текущего, включая уменьшения (загрузка сейва и т.п.) -
// уменьшение само по себе событием не является.
func (d *Detector) observeBadges(snap *api.Snapshot) {
	cur := snap.BadgeCount
	if cur == nil {
		// Значки не прочитались - опрос "не состоялся", память не трогаем.
		return
	}
	if d.lastBadges != nil && *cur > *d.lastBadges {
		n := *cur
		d.emit(api.Event{
			Type:       api.EventBadgeEarned,
			T:          snap.T,
			MapID:      snap.MapID,
			BadgeCount: &n,
		})
	}
	v := *cur
	d.lastBadges = &v
}

// observeRoster: uid, появившийся в команде, которого не было в
// предыдущем НЕПУСТОМ наборе - это поимка. На самом первом опросе
// (и после опроса с пустой/несчитавшейся командой) события не
// генерируются, чтобы не устроить шквал при старте.
func (d *Detector) observeRoster(snap *api.Snapshot) {
	current := make(map[string]bool, len(snap.Party))
	for i := range snap.Party {
		m := &snap.Party[i]
		if m.UID == nil {
			continue
		}
		current[*m.UID] = true
	}

	if d.lastUIDs != nil && len(d.lastUIDs) > 0 {
		for i := range snap.Party {
			m := &snap.Party[i]
			if m.UID == nil || d.lastUIDs[*m.UID] {
				continue
			}
			d.emit(api.Event{
				Type:    api.EventPokemonAcquired,
				T:       snap.T,
				MapID:   snap.MapID,
				UID:     m.UID,
				Species: m.Species,
				Name:    m.Name,
				Level:   m.Level,
			})
		}
	}

	d.lastUIDs = current
}

// observeFainting: ровно одно событие на переход hp >0 -> ==0 для
// каждого uid. Повторные нули события не дают, пока hp не станет
// снова положительным. Карта hp обновляется в любом случае.
func (d *Detector) observeFainting(snap *api.Snapshot) {
	for i := range snap.Party {
		m := &snap.Party[i]
		if m.UID == nil || m.CurrentHP == nil {
			continue
		}
		uid := *m.UID
		cur := *m.CurrentHP

		if prev, ok := d.lastHP[uid]; ok && prev > 0 && cur == 0 {
			d.emit(api.Event{
				Type:    api.EventPokemonDeath,
				T:       snap.T,
				MapID:   snap.MapID,
				UID:     m.UID,
				Species: m.Species,
				Name:    m.Name,
				Level:   m.Level,
			})
		}
		d.lastHP[uid] = cur
	}
}

// NoteBadgeCount сообщает детектору количество значков, увиденное
// хуком перехвата. Память обновляется, чтобы следующий опрос не
// продублировал badge_earned, который хук уже отправил.
func (d *Detector) NoteBadgeCount(count int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	v := count
	d.lastBadges = &v
}

// NoteAcquired регистрирует uid, о поимке которого уже сообщил хук.
// Добавляем только в существующий непустой набор: создавать набор
// до первого опроса нельзя, иначе первый реальный опрос выдаст
// ложные поимки для всей остальной команды.
func (d *Detector) NoteAcquired(uid string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lastUIDs != nil && len(d.lastUIDs) > 0 {
		d.lastUIDs[uid] = true
	}
}
