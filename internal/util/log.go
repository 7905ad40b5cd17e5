package util

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// SetupLogger configures the process-wide logger. Production gets JSON
// output for log shippers; development keeps the human-readable formatter.
func SetupLogger(isProduction bool) {
	if isProduction {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func LogInfo(format string, v ...any) {
	log.Infof(format, v...)
}

func LogWarn(format string, v ...any) {
	log.Warnf(format, v...)
}

func LogError(format string, v ...any) {
	log.Errorf(format, v...)
}

func LogFatal(format string, v ...any) {
	log.Fatalf(format, v...)
}
