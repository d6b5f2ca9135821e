package bridge

import (
	"time"

	"github.com/Belzedar94/PokeBot/pkg/logger"
)

// Кадровое расписание моста.
//
// Нормальный режим: хост зовет Update() из своего покадрового хука,
// предварительно объявив об этом через MarkHookAttached(). Запасной
// режим: хук так и не подключили (хост не умеет) - StartFallbackTicker()
// поднимает фоновый таймер, который зовет Update() с фиксированным
// шагом. Два режима НЕ живут одновременно: при подключенном хуке
// таймер не стартует, а уже запущенный - останавливается. Если гонка
// все же случилась, TryLock внутри Update() заставит опоздавшего
// пропустить кадр вместо одновременного исполнения.

// MarkHookAttached объявляет, что хост подключил настоящий кадровый хук.
// Работающий запасной таймер при этом гасится.
func (s *Service) MarkHookAttached() {
	if s.hookAttached.Swap(true) {
		return
	}
	s.stopTicker()
	logger.Log.Info("Frame hook attached, fallback ticker disabled")
}

// StartFallbackTicker запускает запасной таймер кадров.
// No-op, если настоящий хук уже подключен или таймер уже работает.
func (s *Service) StartFallbackTicker() {
	if s.hookAttached.Load() {
		return
	}

	s.mu.Lock()
	if s.tickerStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.tickerStop = stop
	s.tickerDone = done
	interval := s.cfg.FallbackTick
	s.mu.Unlock()

	logger.Log.WithField("interval", interval.String()).
		Info("⏱️  Fallback frame ticker started")

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if s.hookAttached.Load() {
					return
				}
				s.Update()
			case <-stop:
				return
			}
		}
	}()
}

// stopTicker гасит запасной таймер и дожидается выхода его горутины.
func (s *Service) stopTicker() {
	s.mu.Lock()
	stop, done := s.tickerStop, s.tickerDone
	s.tickerStop, s.tickerDone = nil, nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
