// Package host описывает контракт между мостом и хост-игрой.
//
// Мост НЕ знает, как устроен хост. Вместо этого он проверяет,
// какие способности хост реализует, через type assertion на узкие
// интерфейсы ниже. Отсутствие способности - нормальная ситуация:
// соответствующее поле снимка просто становится null.
package host

// SceneReader возвращает имя активной сцены игры.
type SceneReader interface {
	SceneName() (string, error)
}

// MapReader возвращает ID текущей карты.
type MapReader interface {
	MapID() (int, error)
}

// PositionReader возвращает позицию и направление игрока.
// Направление в нотации RPG Maker: 2=вниз, 4=влево, 6=вправо, 8=вверх.
type PositionReader interface {
	PlayerPosition() (x, y, dir int, err error)
}

// Цепочка чтения значков. Мост пробует способы ПО ПОРЯДКУ:
//  1. BadgeFlagReader - коллекция булевых флагов (считаем true).
//  2. BadgeCountReader - прямой счетчик.
//  3. BadgeTotalReader - глобальная функция-аксессор.
// Если ни один не реализован (или все падают) - badge_count = null.
type BadgeFlagReader interface {
	BadgeFlags() ([]bool, error)
}

type BadgeCountReader interface {
	BadgeCount() (int, error)
}

type BadgeTotalReader interface {
	TotalBadges() (int, error)
}

// MoneyReader возвращает деньги игрока.
type MoneyReader interface {
	Money() (int, error)
}

// PartyReader возвращает текущую команду игрока.
// Ошибка целиком - допустима (команда станет пустой),
// но отдельные битые участники отсеиваются при чтении.
type PartyReader interface {
	Party() ([]Creature, error)
}

// BattleReader сообщает, идет ли сейчас бой.
type BattleReader interface {
	InBattle() (bool, error)
}

// MessageReader возвращает текст сообщения в игровом окне.
// Пустая строка означает "окно закрыто".
type MessageReader interface {
	MessageText() (string, error)
}

// Creature это один слот команды, как его отдает хост.
// Геттерам разрешено паниковать: мост читает их под recover
// и отбрасывает участника целиком, не трогая остальных.
type Creature interface {
	// PersonalID возвращает персистентный ID существа, если хост его хранит.
	// ok=false означает, что мосту придется синтезировать uid самому.
	PersonalID() (int64, bool)

	Species() string
	Name() string
	Level() int
	HP() (current, max int)
	Status() string
}
