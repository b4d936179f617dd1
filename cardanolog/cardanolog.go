// Package cardanolog holds the single package-level logger the rest of
// this module logs through, so that every construction-time checkpoint
// (key handler creation, builder Build, balancer convergence) shares
// one injectable sink instead of each package rolling its own.
package cardanolog

import log "github.com/sirupsen/logrus"

var logger = log.New()

// SetLogger replaces the package-level logger. Passing nil restores a
// fresh default logger rather than leaving callers to nil-check.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New()
	}
	logger = l
}

// Logger returns the current package-level logger.
func Logger() *log.Logger {
	return logger
}
