package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего приложения.
var Log = logrus.New()

// Options - настройки логгера из конфига. Переменные окружения имеют приоритет.
type Options struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output io.Writer
}

// Init инициализирует глобальный логгер по переменным окружения.
// Тесты вызывают его из TestMain.
func Init() {
	InitWith(Options{})
}

// InitWith инициализирует логгер с настройками из конфига.
func InitWith(opts Options) {
	Log = logrus.New()

	// 1. Уровень: LOG_LEVEL, затем конфиг, по умолчанию info.
	logLevel := opts.Level
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		logLevel = env
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	// 2. Форматтер.
	// "json" - для продакшена и сбора логов.
	// "text" - для удобной разработки.
	logFormat := opts.Format
	if env, ok := os.LookupEnv("LOG_FORMAT"); ok {
		logFormat = env
	}
	if strings.ToLower(logFormat) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	// 3. Вывод.
	if opts.Output != nil {
		Log.SetOutput(opts.Output)
	} else {
		Log.SetOutput(os.Stdout)
	}
}
