package cli

import (
	"time"

	"github.com/kwacihq/grow/internal/observability"
)

// emitEvent appends an event to the business event log. Observability is
// best-effort: a nil or failing log never fails the command.
func emitEvent(eventType, msg string, data map[string]any) {
	if EventLog == nil {
		return
	}
	_ = EventLog.Write(observability.Event{
		Time:    time.Now().UTC(),
		Level:   "INFO",
		Type:    eventType,
		Message: msg,
		Data:    data,
	})
}
