package pkg

import (
	"fmt"
	"log"
	"os"
)

// InitLog redirects the standard logger to a file. The terminal belongs to
// the renderer while the client runs, so anything written to stdout would be
// overdrawn or mangled.
func InitLog(dest, prefix string) error {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
	return nil
}
