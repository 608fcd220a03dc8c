package rabbitmq_adapter

import (
	"github.com/aatrips/Verified-land-marketplace/internal/core/port"
	"github.com/aatrips/Verified-land-marketplace/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge пишет сообщения pkg/rabbitmq в LoggerPort сервиса.
type PkgLoggerBridge struct {
	logger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &PkgLoggerBridge{logger: logger.WithFields(port.Fields{"broker": "rabbitmq"})}
}

// toFields собирает пары ключ-значение. Пары с нестроковым ключом и хвост без значения отбрасываются.
// Ошибки превращаются в строки, иначе fluent сериализует их как пустой объект.
func (b *PkgLoggerBridge) toFields(keysAndValues ...interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		if err, isErr := keysAndValues[i+1].(error); isErr && err != nil {
			fields[key] = err.Error()
			continue
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.logger.Debug(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.logger.Info(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.logger.Warn(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.logger.Error(msg, err, b.toFields(keysAndValues...))
}
