package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Belzedar94/PokeBot/pkg/api"
)

// Writer пишет журнал событий моста: JSON Lines, одно событие на строку,
// тот же формат, что уходит контроллеру. Журнал append-only, так что
// упавший процесс теряет максимум последнюю недописанную строку.
//
// Writer опционален: мост работает и без него. Любая ошибка записи
// выключает журнал до конца сессии, но НЕ трогает сам мост.
type Writer struct {
	mu     sync.Mutex
	f      *os.File
	broken bool
}

func NewWriter(path string) (*Writer, error) {
	// Создаем папку если нет
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		_ = os.MkdirAll(dir, 0755)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	return &Writer{f: f}, nil
}

// Append дописывает одно событие в журнал.
// Ошибки не возвращаются наружу: журнал - вторичная система,
// событие в любом случае уже ушло в очередь контроллера.
func (w *Writer) Append(ev api.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.broken {
		return
	}

	data, err := json.Marshal(ev)
	if err != nil {
		w.broken = true
		return
	}
	data = append(data, '\n')

	if _, err := w.f.Write(data); err != nil {
		w.broken = true
	}
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.broken = true
	return w.f.Close()
}
