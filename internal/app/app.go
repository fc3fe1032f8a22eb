// Package app holds the application services and business logic.
package app

import (
	"fmt"
	"strings"

	"bodymetrics/internal/domain"
	"bodymetrics/internal/metrics"

	log "github.com/sirupsen/logrus"
)

// writeFailed logs a failed write and counts it. The caller's state is left
// as it was before the write.
func writeFailed(mm *metrics.Manager, entity string, err error) error {
	log.WithField("entity", entity).Errorf("write failed: %s", err)
	if mm != nil {
		mm.CounterWriteFailures.WithLabelValues(entity).Inc()
	}
	return err
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalid, fmt.Sprintf(format, args...))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
