package subwaysign

import (
	"log"
	"os"
)

// InitLogging configures the process-wide logger.
func InitLogging() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
