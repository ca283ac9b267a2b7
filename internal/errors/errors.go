package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/confi/internal/logger"
)

// Format prefixes an error for display on the terminal.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Report logs err and writes it to w. It returns false when err is nil.
func Report(w io.Writer, err error) bool {
	if err == nil {
		return false
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(w, Format(err))
	return true
}

// Fatal reports err on stderr and exits with status 1.
func Fatal(err error) {
	if Report(os.Stderr, err) {
		os.Exit(1)
	}
}
