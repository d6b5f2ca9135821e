// Package hooks это необязательный слой перехвата мутаций хоста.
//
// Polling-детектор замечает изменение только на следующем цикле опроса.
// Если хост умеет сообщать о мутациях напрямую (реализует наблюдательские
// интерфейсы из internal/host), события уходят в очередь немедленно.
// Слой строго аддитивен: без него polling остается полным источником
// тех же видов событий (обмороки - только polling, отдельной точки
// перехвата для них у хоста нет).
package hooks

import (
	"github.com/Belzedar94/PokeBot/internal/detect"
	"github.com/Belzedar94/PokeBot/internal/host"
	"github.com/Belzedar94/PokeBot/internal/snapshot"
	"github.com/Belzedar94/PokeBot/pkg/api"
	"github.com/Belzedar94/PokeBot/pkg/logger"
	"github.com/Belzedar94/PokeBot/pkg/utils"
)

// Installed сообщает, какие точки перехвата удалось подключить.
type Installed struct {
	CreatureStored bool
	BadgeGranted   bool
}

// Install подключает обработчики к наблюдательским способностям хоста.
//
// emit - тот же сток, что у детектора (очередь + live-рассылка).
// snap нужен для маркировки события текущей картой, det - чтобы
// обновить память детектора и не продублировать событие на следующем
// опросе. Обработчики могут вызываться из произвольного потока хоста:
// все, что они трогают, защищено своими мьютексами.
func Install(hostObj any, emit func(api.Event), snap *snapshot.Snapshotter, det *detect.Detector) Installed {
	var in Installed

	if o, ok := hostObj.(host.CreatureObserver); ok {
		o.OnCreatureStored(func(c host.Creature) {
			onCreatureStored(c, emit, snap, det)
		})
		in.CreatureStored = true
	}

	if o, ok := hostObj.(host.BadgeObserver); ok {
		o.OnBadgeGranted(func(count int) {
			onBadgeGranted(count, emit, snap, det)
		})
		in.BadgeGranted = true
	}

	if in.CreatureStored || in.BadgeGranted {
		logger.Log.WithField("creature", in.CreatureStored).
			WithField("badge", in.BadgeGranted).
			Info("Observation hooks installed")
	}
	return in
}

// onCreatureStored вызывается хостом ПОСЛЕ успешного добавления существа.
// Паника чтения существа гасится: перехват не имеет права уронить
// оригинальную операцию хоста.
func onCreatureStored(c host.Creature, emit func(api.Event), snap *snapshot.Snapshotter, det *detect.Detector) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Debug("creature hook read failed")
		}
	}()

	if c == nil {
		return
	}
	m := snap.Member(c)
	if m == nil {
		// Существо не читается даже под recover - событие пропускаем,
		// следующий опрос попробует еще раз.
		return
	}

	emit(api.Event{
		Type:    api.EventPokemonAcquired,
		T:       utils.UnixNow(),
		MapID:   snap.MapID(),
		UID:     m.UID,
		Species: m.Species,
		Name:    m.Name,
		Level:   m.Level,
	})

	if m.UID != nil {
		det.NoteAcquired(*m.UID)
	}
}

// onBadgeGranted вызывается хостом ПОСЛЕ успешной выдачи значка.
func onBadgeGranted(count int, emit func(api.Event), snap *snapshot.Snapshotter, det *detect.Detector) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("panic", r).Debug("badge hook read failed")
		}
	}()

	n := count
	emit(api.Event{
		Type:       api.EventBadgeEarned,
		T:          utils.UnixNow(),
		MapID:      snap.MapID(),
		BadgeCount: &n,
	})
	det.NoteBadgeCount(count)
}
