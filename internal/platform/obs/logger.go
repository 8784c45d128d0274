package obs

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logger. Unknown levels fall back to info.
func Setup(level string, json bool) {
	log.SetOutput(os.Stderr)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
