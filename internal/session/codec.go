package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finsafe/internal/metrics"
)

func decode(data []byte, now time.Time) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.Expired(now) {
		return nil, ErrNotFound
	}
	return &s, nil
}

func observe(backend, op string, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrNotFound):
		result = "miss"
	case err != nil:
		result = "error"
	}
	metrics.SessionOperationsTotal.WithLabelValues(backend, op, result).Inc()
}
