package utils

import "time"

// UnixNow возвращает текущее время в unix-секундах с дробной частью.
// Такой формат ("t") используют снимки, события и статусный файл.
func UnixNow() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}
