package game

import (
	"log"
	"os"
	"sync/atomic"
)

var logger atomic.Pointer[log.Logger]

func init() {
	logger.Store(log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds))
}

// SetLogger replaces the logger used by tasks. nil is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger.Store(l)
	}
}

func Logger() *log.Logger { return logger.Load() }

func Infof(format string, args ...any) { logger.Load().Printf(format, args...) }

func Warnf(format string, args ...any) { logger.Load().Printf("WARN "+format, args...) }
