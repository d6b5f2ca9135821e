package snapshot

import (
	"fmt"
	"strconv"

	"github.com/Belzedar94/PokeBot/internal/host"
)

// CreatureUID выводит стабильный идентификатор существа.
//
// Основной путь: персистентный ID, который игра хранит в самом существе.
// Он переживает сохранения/загрузки, поэтому uid получается по-настоящему
// стабильным.
//
// Запасной путь: идентичность объекта в памяти + соль времени процесса.
// Это ПОСЛЕДНИЙ рубеж со слабыми гарантиями: uid не переживает рестарт
// процесса и может "поплыть", если рантайм хоста переиспользует объекты.
// Известное ограничение, а не баг.
func CreatureUID(c host.Creature, salt string) *string {
	if id, ok := c.PersonalID(); ok {
		s := "pid:" + strconv.FormatInt(id, 10)
		return &s
	}

	s := fmt.Sprintf("obj:%p:%s", c, salt)
	return &s
}
