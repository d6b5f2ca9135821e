// Package bridge реализует встраиваемый мост: неблокирующий сервер,
// живущий внутри покадрового цикла хост-игры.
//
// Единственная точка входа для хоста - Update(), вызываемый раз в кадр.
// Самый важный контракт всего моста: Update() НИКОГДА не паникует и
// НИКОГДА не блокирует. Мост - гость в чужом процессе; любая внутренняя
// ошибка деградирует, но не роняет и не тормозит игру.
package bridge

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Belzedar94/PokeBot/internal/detect"
	"github.com/Belzedar94/PokeBot/internal/hooks"
	"github.com/Belzedar94/PokeBot/internal/infrastructure/journal"
	"github.com/Belzedar94/PokeBot/internal/network"
	"github.com/Belzedar94/PokeBot/internal/snapshot"
	"github.com/Belzedar94/PokeBot/internal/status"
	"github.com/Belzedar94/PokeBot/pkg/api"
	"github.com/Belzedar94/PokeBot/pkg/logger"
)

// Service это и есть мост: один экземпляр на процесс.
// Конструируется при загрузке, живет до конца процесса.
type Service struct {
	cfg Config

	// mu сериализует кадровый цикл. Update() берет его через TryLock:
	// если настоящий хук и запасной таймер вдруг активны одновременно,
	// опоздавший вызов просто ПРОПУСКАЕТ кадр, а не ждет (ждать = блокировать
	// кадр хоста). Диагностические читатели берут mu обычным Lock.
	mu sync.Mutex

	snap     *snapshot.Snapshotter
	queue    *detect.Queue
	detector *detect.Detector
	events   *network.Broadcaster
	statusP  *status.Publisher
	journal  *journal.Writer // nil, если журнал выключен
	hooked   hooks.Installed

	ln       *net.TCPListener
	started  bool
	disabled bool // навсегда: после отказа bind мост выключен до рестарта процесса
	stopped  bool // после явного Stop(); кадровый цикл сам не переоткрывает сокет
	frame    uint64
	sessions []*Session

	debug atomic.Bool

	hookAttached atomic.Bool
	tickerStop   chan struct{}
	tickerDone   chan struct{}
}

// New собирает мост поверх объекта хоста.
// Сокет НЕ открывается здесь: это работа Start()/первого Update().
func New(hostObj any, cfg Config) *Service {
	s := &Service{
		cfg:     cfg,
		queue:   detect.NewQueue(cfg.QueueCapacity),
		events:  network.NewBroadcaster(),
		statusP: status.NewPublisher(cfg.StatusPath),
		snap:    snapshot.New(hostObj),
	}

	// Журнал опционален; его отказ мост не останавливает.
	if cfg.JournalPath != "" {
		jw, err := journal.NewWriter(cfg.JournalPath)
		if err != nil {
			logger.Log.WithError(err).Warn("Event journal disabled")
		} else {
			s.journal = jw
		}
	}

	// Единый сток событий: очередь для контроллера + live-рассылка
	// вьюерам + журнал на диске.
	emit := func(e api.Event) {
		s.queue.Push(e)
		s.events.Publish(e)
		if s.journal != nil {
			s.journal.Append(e)
		}
	}
	s.detector = detect.NewDetector(emit)

	// Хуки перехвата подключаем сразу: они аддитивны и не требуют сокета.
	s.hooked = hooks.Install(hostObj, emit, s.snap, s.detector)

	s.statusP.Publish(status.Record{
		Kind: status.KindLoaded,
		Host: cfg.Host,
		Port: cfg.Port,
	})
	logger.Log.Info("🔌 PokeBot bridge loaded")
	return s
}

// Start идемпотентно открывает слушающий сокет.
// Повторный вызов при живом слушателе - no-op. После первого отказа
// bind мост выключен НАВСЕГДА (до рестарта процесса) - ретраев нет.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = false
	return s.ensureStartedLocked()
}

func (s *Service) ensureStartedLocked() error {
	if s.started || s.disabled || s.stopped {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.addr())
	if err != nil {
		s.disabled = true
		s.statusP.Publish(status.Record{
			Kind:     status.KindStartFailed,
			Host:     s.cfg.Host,
			Port:     s.cfg.Port,
			Disabled: true,
			Error:    err.Error(),
		})
		logger.Log.WithError(err).Error("Bridge listen failed, bridge permanently disabled")
		return err
	}

	s.ln = ln.(*net.TCPListener)
	s.started = true
	s.statusP.Publish(status.Record{
		Kind: status.KindListening,
		Host: s.cfg.Host,
		Port: s.cfg.Port,
	})
	logger.Log.WithField("addr", ln.Addr().String()).Info("🛰️  Bridge listening")
	return nil
}

// Update это кадровый цикл моста. Вызывается хостом раз в кадр
// (или запасным таймером). Никогда не паникует, никогда не блокирует.
func (s *Service) Update() {
	if !s.mu.TryLock() {
		// Идет другой вызов Update (гонка хук/таймер) - пропускаем кадр.
		return
	}
	defer s.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			// Внешняя граница отказов всего моста: хост считает панику
			// из кадрового хука фатальной, поэтому дальше нее не уходит ничто.
			logger.Log.WithField("panic", r).Error("Bridge frame recovered")
		}
	}()

	_ = s.ensureStartedLocked()
	if !s.started {
		return
	}

	s.frame++

	// Опрос состояния и диффы - каждый N-й кадр, не каждый.
	if s.frame%uint64(s.cfg.PollEvery) == 0 {
		s.detector.Observe(s.snap.Take())
	}

	s.acceptPending()
	s.serviceSessions()
}

// acceptPending вычерпывает ВСЕ ожидающие входящие соединения
// плотным неблокирующим циклом (accept до would-block).
func (s *Service) acceptPending() {
	for {
		// Дедлайн "сейчас" превращает Accept в неблокирующий вызов.
		_ = s.ln.SetDeadline(time.Now())
		conn, err := s.ln.Accept()
		if err != nil {
			if !isWouldBlock(err) {
				logger.Log.WithError(err).Warn("Accept failed")
			}
			return
		}

		// Отключаем коалесцинг отправки: ответы должны уходить сразу.
		if tc, ok := conn.(*net.TCPConn); ok {
			_ = tc.SetNoDelay(true)
		}

		sess := newSession(conn)
		s.sessions = append(s.sessions, sess)
		logger.Log.WithFields(logrus.Fields{
			"session": sess.ID,
			"remote":  sess.RemoteAddr(),
		}).Info("Controller connected")
	}
}

// serviceSessions обслуживает каждую открытую сессию не более одного
// раза за кадр под ОБЩИМИ кадровыми бюджетами байт и команд.
//
// Стартовая позиция обхода вращается от кадра к кадру: болтливая
// сессия может отложить, но не заморить голодом остальных
// (бюджет сбрасывается каждый кадр).
func (s *Service) serviceSessions() {
	n := len(s.sessions)
	if n == 0 {
		return
	}

	readBudget := s.cfg.ReadBudget
	lineBudget := s.cfg.LineBudget
	start := int(s.frame % uint64(n))

	var dead []*Session
	for k := 0; k < n; k++ {
		sess := s.sessions[(start+k)%n]
		if err := s.serviceOne(sess, &readBudget, &lineBudget); err != nil {
			if err != errPeerClosed {
				logger.Log.WithFields(logrus.Fields{
					"session": sess.ID,
					"error":   err.Error(),
				}).Warn("Session I/O failed")
			} else {
				logger.Log.WithField("session", sess.ID).Info("Controller disconnected")
			}
			sess.close()
			dead = append(dead, sess)
		}
	}

	if dead != nil {
		s.removeSessions(dead)
	}
}

// serviceOne гоняет одну сессию через три фазы кадра:
// чтение -> разбор/диспетчеризация -> запись.
func (s *Service) serviceOne(sess *Session, readBudget, lineBudget *int) error {
	// 1. Чтение (одна неблокирующая попытка в пределах бюджета)
	if err := sess.readOnce(readBudget); err != nil {
		return err
	}

	// 2. Разбор: по строке за единицу бюджета команд.
	// Пустые строки пропускаются бесплатно.
	for *lineBudget > 0 {
		line, ok := sess.nextLine()
		if !ok {
			break
		}
		if len(line) == 0 {
			continue
		}
		sess.enqueue(s.dispatchLine(line))
		*lineBudget--
	}

	// 3. Запись (частичная запись сохраняет остаток на следующий кадр)
	return sess.flush()
}

// removeSessions выбрасывает умершие сессии, сохраняя порядок остальных.
func (s *Service) removeSessions(dead []*Session) {
	isDead := make(map[*Session]bool, len(dead))
	for _, d := range dead {
		isDead[d] = true
	}
	alive := s.sessions[:0]
	for _, sess := range s.sessions {
		if !isDead[sess] {
			alive = append(alive, sess)
		}
	}
	for i := len(alive); i < len(s.sessions); i++ {
		s.sessions[i] = nil
	}
	s.sessions = alive
}

// Stop закрывает слушатель и все сессии.
// Нужен только для явного teardown (и тестов): в бою мост живет,
// пока жив процесс хоста.
func (s *Service) Stop() {
	s.stopTicker()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.ln != nil {
		_ = s.ln.Close()
		s.ln = nil
	}
	for _, sess := range s.sessions {
		sess.close()
	}
	s.sessions = nil

	// Указатель не обнуляем: emit может читать его из потока хука.
	// Append после Close - тихий no-op.
	if s.journal != nil {
		_ = s.journal.Close()
	}

	if s.started {
		s.started = false
		s.statusP.Publish(status.Record{
			Kind: status.KindStopped,
			Host: s.cfg.Host,
			Port: s.cfg.Port,
		})
		logger.Log.Info("Bridge stopped")
	}
}

// setDebug переключает подробное логирование (команда set debug).
func (s *Service) setDebug(enabled bool) {
	s.debug.Store(enabled)
	logger.SetDebug(enabled)
	logger.Log.WithField("debug", enabled).Info("Debug logging toggled")
}

func (s *Service) debugEnabled() bool {
	return s.debug.Load()
}
