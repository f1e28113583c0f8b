package logger

import (
	"fmt"
	"log"
	"os"
)

// New returns a stdlib-backed printf logger with a component prefix,
// stamped in UTC. It serves third-party code that wants a *log.Logger,
// like the cron recovery chain.
func New(component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(os.Stdout, prefix, log.LstdFlags|log.LUTC)
}
