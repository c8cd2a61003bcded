package fsverity

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// logger is the diagnostic channel validation failures are reported on,
// separate from the error value ComputeDigest returns: the log line is
// for an operator tailing a daemon's output, the error is for the
// caller's control flow. Grounded on the registry/storage split the rest
// of the pack uses between a returned error and a logrus entry.
var (
	loggerMu sync.RWMutex
	logger   = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "fsverity")
)

// SetLogger replaces the package-wide diagnostic logger. An embedding
// caller (a kernel verification path, a signing tool) can use this to
// route validation diagnostics into its own structured logger instead of
// the default, process-wide logrus instance.
func SetLogger(l *logrus.Entry) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func getLogger() *logrus.Entry {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

func logInvalid(field string, value any) {
	getLogger().WithField(field, value).Error("fsverity: invalid parameter")
}
