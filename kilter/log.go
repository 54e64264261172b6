package kilter

import (
	"fmt"
	"log"
)

func logWarning(format string, v ...any) {
	log.Printf(fmt.Sprintf("kilter: warning: %s", format), v...)
}

// LogWarning is called when the protocol state machine wants to report a
// non-fatal notice: an implicit SETSYMLIST elevation, or an unknown message
// surfaced in non-aborting mode.
//
// The default implementation uses [log.Printf]. Re-assign LogWarning to
// route notices elsewhere; do not assign nil to it.
var LogWarning = logWarning
