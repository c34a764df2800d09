// Package logger exposes the shared project logger.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

var (
	once sync.Once
	log  *logrus.Logger
)

// GetProjectLogger returns the process-wide logger. Because stdout belongs to
// the terminal UI, output goes to the file named by TERMIGROOVE_LOG, or is
// discarded when the variable is unset.
func GetProjectLogger() *logrus.Logger {
	once.Do(func() {
		log = logging.GetLogger("termigroove")
		log.SetOutput(io.Discard)

		if path := os.Getenv("TERMIGROOVE_LOG"); path != "" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				log.SetOutput(f)
				log.SetLevel(logrus.DebugLevel)
			}
		}
	})
	return log
}

// SetOutput redirects the shared logger, used by the CLI --log-file flag.
func SetOutput(w io.Writer) {
	l := GetProjectLogger()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
}
