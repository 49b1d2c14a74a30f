package eventbus

import "context"

// Publisher интерфейс отправки JSON-сообщений в брокер
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v interface{}) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
