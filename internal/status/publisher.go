// Package status пишет диагностический файл моста.
//
// Это внеполосная наблюдаемость: если мост не отвечает по сокету,
// по файлу можно понять, слушает ли он вообще и почему нет.
// Любой сбой записи глотается - диагностика не имеет права
// влиять на работу моста.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Belzedar94/PokeBot/internal/version"
	"github.com/Belzedar94/PokeBot/pkg/utils"
)

// Виды переходов состояния моста.
const (
	KindLoaded      = "loaded"
	KindListening   = "listening"
	KindStartFailed = "start_failed"
	KindStopped     = "stopped"
)

// Record это содержимое диагностического файла.
// Файл перезаписывается ЦЕЛИКОМ на каждом переходе, не дописывается.
type Record struct {
	T        float64 `json:"t"`
	Kind     string  `json:"kind"`
	Host     string  `json:"host"`
	Port     int     `json:"port"`
	Disabled bool    `json:"disabled"`
	Error    string  `json:"error,omitempty"`
	Build    string  `json:"build,omitempty"`
}

// Publisher пишет записи по фиксированному пути.
type Publisher struct {
	path string
}

// NewPublisher создает Publisher. Пустой path означает
// "рядом с собственным бинарем" (pokebot_status.json).
func NewPublisher(path string) *Publisher {
	if path == "" {
		path = defaultPath()
	}
	return &Publisher{path: path}
}

func defaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		// Хуже не будет: пишем в рабочую директорию.
		return "pokebot_status.json"
	}
	return filepath.Join(filepath.Dir(exe), "pokebot_status.json")
}

// Path возвращает путь диагностического файла.
func (p *Publisher) Path() string {
	return p.path
}

// Publish записывает переход состояния. Best-effort:
// ошибки не возвращаются, худший случай - след в fallback-логе.
func (p *Publisher) Publish(rec Record) {
	rec.T = utils.UnixNow()
	if rec.Build == "" {
		rec.Build = version.String()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		p.fallback(fmt.Sprintf("marshal %s: %v", rec.Kind, err))
		return
	}

	if err := os.WriteFile(p.path, append(data, '\n'), 0644); err != nil {
		p.fallback(fmt.Sprintf("write %s: %v", rec.Kind, err))
	}
}

// fallback дописывает строку в запасной plain-text лог.
// Если и это не удалось - молча сдаемся: диагностика второго
// порядка не стоит риска для кадра хоста.
func (p *Publisher) fallback(msg string) {
	f, err := os.OpenFile(p.path+".log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = fmt.Fprintf(f, "%.3f %s\n", utils.UnixNow(), msg)
}
