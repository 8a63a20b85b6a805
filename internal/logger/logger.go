package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init инициализирует структурированный логгер под окружение:
// development — debug и текстовый формат, остальное — info и JSON.
func Init(env string) {
	Log = logrus.New()

	if env == "development" {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}

	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// Get возвращает логгер; до Init отдаёт немой логгер, чтобы пакеты
// и тесты могли писать в лог без проверок на nil.
func Get() *logrus.Logger {
	if Log != nil {
		return Log
	}
	return discard
}

// WithSession добавляет к записи идентификатор браузерной сессии.
func WithSession(sid string) *logrus.Entry {
	return Get().WithField("sid", sid)
}

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
