package middleware

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/ecotrack/internal/metrics"
)

// RecoverFromPanic перехватывает панику обработчика апдейта.
// Вызывается через defer в начале обработки.
func RecoverFromPanic(updateID int) {
	if r := recover(); r != nil {
		metrics.PanicRecovered()
		log.WithFields(log.Fields{
			"component": "panic_recovery",
			"update_id": updateID,
			"panic":     fmt.Sprintf("%v", r),
			"stack":     string(debug.Stack()),
		}).Error("ПАНИКА в обработчике — восстановлено")
	}
}
