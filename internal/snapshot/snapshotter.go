// Package snapshot собирает моментальные снимки состояния хост-игры.
//
// Главный принцип - изоляция отказов: каждое поле снимка читается
// независимым аксессором, который (а) проверяет наличие способности
// хоста, (б) гасит панику и ошибку чтения. Падение одного аксессора
// никогда не отменяет остальные поля.
package snapshot

import (
	"github.com/Belzedar94/PokeBot/internal/host"
	"github.com/Belzedar94/PokeBot/pkg/api"
	"github.com/Belzedar94/PokeBot/pkg/utils"
)

// Snapshotter читает состояние хоста и собирает из него api.Snapshot.
type Snapshotter struct {
	host any
	salt string
}

// New создает Snapshotter поверх объекта хоста.
// Соль фиксируется один раз на процесс: синтезированные uid
// должны быть стабильны хотя бы между кадрами.
func New(hostObj any) *Snapshotter {
	return &Snapshotter{
		host: hostObj,
		salt: utils.TimeSalt(),
	}
}

// Take собирает полный снимок. Никогда не возвращает nil и не паникует:
// худший случай - снимок, где все поля null.
func (s *Snapshotter) Take() *api.Snapshot {
	pos, dir := s.PlayerPosition()
	return &api.Snapshot{
		T:               utils.UnixNow(),
		SceneName:       s.SceneName(),
		MapID:           s.MapID(),
		PlayerPosition:  pos,
		PlayerDirection: dir,
		BadgeCount:      s.BadgeCount(),
		Money:           s.Money(),
		Party:           s.Party(),
		InBattle:        s.InBattle(),
		MessageText:     s.MessageText(),
	}
}

// guard выполняет fn, гася любую панику чтения хост-памяти.
func guard(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}

// SceneName возвращает имя активной сцены или nil.
func (s *Snapshotter) SceneName() (out *string) {
	r, ok := s.host.(host.SceneReader)
	if !ok {
		return nil
	}
	guard(func() {
		if v, err := r.SceneName(); err == nil && v != "" {
			out = &v
		}
	})
	return out
}

// MapID возвращает ID текущей карты или nil.
// Используется и при сборке снимка, и хуками для маркировки событий.
func (s *Snapshotter) MapID() (out *int) {
	r, ok := s.host.(host.MapReader)
	if !ok {
		return nil
	}
	guard(func() {
		if v, err := r.MapID(); err == nil {
			out = &v
		}
	})
	return out
}

// PlayerPosition возвращает позицию и направление игрока (оба nil при отказе).
func (s *Snapshotter) PlayerPosition() (pos *api.Position, dir *int) {
	r, ok := s.host.(host.PositionReader)
	if !ok {
		return nil, nil
	}
	guard(func() {
		x, y, d, err := r.PlayerPosition()
		if err != nil {
			return
		}
		pos = &api.Position{X: x, Y: y}
		dir = &d
	})
	return pos, dir
}

// BadgeCount считает значки по цепочке фолбеков (см. internal/host):
// флаги -> счетчик -> глобальный аксессор. Каждое звено изолировано.
func (s *Snapshotter) BadgeCount() (out *int) {
	// 1. Коллекция булевых флагов
	if r, ok := s.host.(host.BadgeFlagReader); ok {
		guard(func() {
			flags, err := r.BadgeFlags()
			if err != nil {
				return
			}
			n := 0
			for _, f := range flags {
				if f {
					n++
				}
			}
			out = &n
		})
		if out != nil {
			return out
		}
	}

	// 2. Прямой счетчик
	if r, ok := s.host.(host.BadgeCountReader); ok {
		guard(func() {
			if v, err := r.BadgeCount(); err == nil {
				out = &v
			}
		})
		if out != nil {
			return out
		}
	}

	// 3. Глобальная функция-аксессор
	if r, ok := s.host.(host.BadgeTotalReader); ok {
		guard(func() {
			if v, err := r.TotalBadges(); err == nil {
				out = &v
			}
		})
	}
	return out
}

// Money возвращает деньги игрока или nil.
func (s *Snapshotter) Money() (out *int) {
	r, ok := s.host.(host.MoneyReader)
	if !ok {
		return nil
	}
	guard(func() {
		if v, err := r.Money(); err == nil {
			out = &v
		}
	})
	return out
}

// Party читает команду участник-за-участником.
// Отказ чтения всей команды -> пустой список.
// Отказ чтения ОДНОГО участника -> пропускаем только его:
// битый участник не должен попасть в снимок даже частично.
func (s *Snapshotter) Party() []api.PartyMember {
	out := make([]api.PartyMember, 0)

	r, ok := s.host.(host.PartyReader)
	if !ok {
		return out
	}

	var creatures []host.Creature
	guard(func() {
		if cs, err := r.Party(); err == nil {
			creatures = cs
		}
	})

	for _, c := range creatures {
		if c == nil {
			continue
		}
		if m := s.Member(c); m != nil {
			out = append(out, *m)
		}
	}
	return out
}

// Member конвертирует одно существо хоста в DTO.
// Возвращает nil, если чтение сорвалось на полпути (паника геттера).
func (s *Snapshotter) Member(c host.Creature) (m *api.PartyMember) {
	defer func() {
		if recover() != nil {
			m = nil
		}
	}()

	pm := api.PartyMember{}
	pm.UID = CreatureUID(c, s.salt)

	if v := c.Species(); v != "" {
		pm.Species = &v
	}
	if v := c.Name(); v != "" {
		pm.Name = &v
	}
	if v := c.Level(); v > 0 {
		pm.Level = &v
	}
	// HP считаем известным только при валидном максимуме.
	// current_hp = 0 - это валидное значение (обморок), не "unknown".
	if cur, max := c.HP(); max > 0 {
		pm.CurrentHP = &cur
		pm.MaxHP = &max
	}
	if v := c.Status(); v != "" {
		pm.Status = &v
	}
	return &pm
}

// InBattle возвращает флаг боя или nil.
func (s *Snapshotter) InBattle() (out *bool) {
	r, ok := s.host.(host.BattleReader)
	if !ok {
		return nil
	}
	guard(func() {
		if v, err := r.InBattle(); err == nil {
			out = &v
		}
	})
	return out
}

// MessageText возвращает текст игрового сообщения или nil.
// Пустую строку ("окно закрыто") тоже отдаем как nil.
func (s *Snapshotter) MessageText() (out *string) {
	r, ok := s.host.(host.MessageReader)
	if !ok {
		return nil
	}
	guard(func() {
		if v, err := r.MessageText(); err == nil && v != "" {
			out = &v
		}
	})
	return out
}
