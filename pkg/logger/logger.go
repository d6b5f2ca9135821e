package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log *logrus.Logger

// baseLevel уровень, заданный окружением. Нужен, чтобы SetDebug(false)
// возвращал логгер к исходному уровню, а не к хардкоду.
var baseLevel logrus.Level

// Init инициализирует глобальный логгер.
// Эта функция должна быть вызвана один раз при старте процесса
// (в main.go или при загрузке моста в хост).
func Init() {
	Log = logrus.New()

	// 1. Устанавливаем уровень логирования из переменной окружения.
	// По умолчанию - "info". Для отладки можно выставить "debug".
	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	baseLevel = level
	Log.SetLevel(level)

	// 2. Устанавливаем форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	if logFormat == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Устанавливаем, куда писать логи (в стандартный вывод).
	// Мост живет внутри чужого процесса, поэтому stdout, а не файл:
	// куда его перенаправить - решает хост.
	Log.SetOutput(os.Stdout)
}

// SetDebug переключает подробное логирование на лету.
// Вызывается диспетчером моста по команде {"cmd":"set","key":"debug"}.
func SetDebug(enabled bool) {
	if Log == nil {
		Init()
	}
	if enabled {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(baseLevel)
	}
}
