package sheets

import (
	"context"

	"finsafe/internal/core"
)

// AlertSink records low-balance alerts somewhere a person will read them.
type AlertSink interface {
	// AppendAlert writes one alert row and returns a reference to it.
	AppendAlert(ctx context.Context, a core.BalanceAlert) (rowRef string, err error)
}
