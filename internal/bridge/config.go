package bridge

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Бюджеты и константы кадра.
const (
	// ReadChunk максимум байт на ОДИН системный вызов чтения.
	ReadChunk = 4096
)

// Config хранит параметры моста. Все берется из окружения:
// мост живет внутри чужого процесса, своих флагов у него нет.
type Config struct {
	// Host и Port адреса прослушивания. Только loopback:
	// аутентификации у протокола нет, мост рассчитан на одну машину.
	Host string `env:"PB_BRIDGE_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"PB_BRIDGE_PORT" envDefault:"53135"`

	// PollEvery каденция опроса: детектор и снимки гоняем каждый
	// N-й кадр, чтобы ограничить CPU-стоимость.
	PollEvery int `env:"PB_POLL_EVERY" envDefault:"2"`

	// ReadBudget общий лимит прочитанных байт на кадр (на ВСЕ сессии).
	ReadBudget int `env:"PB_READ_BUDGET" envDefault:"65536"`

	// LineBudget общий лимит обработанных команд на кадр (на ВСЕ сессии).
	LineBudget int `env:"PB_LINE_BUDGET" envDefault:"50"`

	// QueueCapacity предел очереди событий.
	QueueCapacity int `env:"PB_QUEUE_CAP" envDefault:"200"`

	// StatusPath путь диагностического файла ("" - рядом с бинарем).
	StatusPath string `env:"PB_STATUS_PATH"`

	// JournalPath путь JSONL-журнала событий ("" - журнал выключен).
	JournalPath string `env:"PB_JOURNAL_PATH"`

	// DebugHTTPPort порт диагностического HTTP-сервера (0 - выключен).
	DebugHTTPPort int `env:"PB_DEBUG_HTTP_PORT" envDefault:"0"`

	// FallbackTick интервал запасного таймера, который зовет Update(),
	// когда хост так и не подключил кадровый хук.
	FallbackTick time.Duration `env:"PB_FALLBACK_TICK" envDefault:"50ms"`
}

// LoadConfig читает конфиг из переменных окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("bridge config: %w", err)
	}
	return cfg, cfg.validate()
}

// DefaultConfig возвращает конфиг по умолчанию (без чтения окружения).
// Удобен в тестах.
func DefaultConfig() Config {
	return Config{
		Host:          "127.0.0.1",
		Port:          53135,
		PollEvery:     2,
		ReadBudget:    64 * 1024,
		LineBudget:    50,
		QueueCapacity: 200,
		FallbackTick:  50 * time.Millisecond,
	}
}

func (c Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("bridge config: bad port %d", c.Port)
	}
	if c.PollEvery < 1 {
		return fmt.Errorf("bridge config: poll cadence must be >= 1, got %d", c.PollEvery)
	}
	if c.ReadBudget < ReadChunk {
		return fmt.Errorf("bridge config: read budget %d below single chunk %d", c.ReadBudget, ReadChunk)
	}
	if c.LineBudget < 1 {
		return fmt.Errorf("bridge config: line budget must be >= 1, got %d", c.LineBudget)
	}
	return nil
}

func (c Config) addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
