package replay

import (
	"log"
	"os"

	"github.com/octane-rl/rlreplay/wire"
)

func init() {
	wire.SetAnomalyLogger(func(format string, args ...any) { logAnomaly(format, args...) })
}

// anomalyLogger receives non-fatal format anomalies -- recognized wire
// quirks, like the String8 length-83886080 bug, that get logged rather
// than silently corrected.
var anomalyLogger = log.New(os.Stderr, "replay: ", log.LstdFlags)

// SetLogger replaces the destination for anomaly logging. Passing nil
// restores the default (stderr).
func SetLogger(l *log.Logger) {
	if l == nil {
		anomalyLogger = log.New(os.Stderr, "replay: ", log.LstdFlags)
		return
	}
	anomalyLogger = l
}

func logAnomaly(format string, args ...any) {
	anomalyLogger.Printf(format, args...)
}
