package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// GenerateID создает простой уникальный ID (замена UUID для снижения зависимостей)
func GenerateID() string {
	b := make([]byte, 8) // 16 символов hex
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// TimeSalt возвращает соль, производную от текущего времени.
// Используется для синтеза uid существ, у которых нет
// персистентного ID (слабая стабильность в пределах процесса).
func TimeSalt() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}
