// Package notify declares the notification sink the core publishes transient
// findings to (duplicate-candidate notices, recoverable lookup failures). The
// toast/banner surface itself belongs to the UI collaborator; this package
// only carries the contract plus a logging sink for headless use.
package notify

import (
	"github.com/rs/zerolog"
)

// Notifier receives user-facing notices. DedupeKey identifies a notice so a
// newer publication replaces the previous one wholesale and Hide can retract
// it when its trigger goes away.
type Notifier interface {
	Notice(message string, data map[string]any, dedupeKey string)
	Hide(dedupeKey string)
}

// Nop discards every notice.
type Nop struct{}

func (Nop) Notice(string, map[string]any, string) {}
func (Nop) Hide(string)                           {}

// LogNotifier writes notices to a zerolog logger. Data values that render
// into HTML toasts are sanitised first; user-entered names must not smuggle
// markup into the notification surface.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier wraps the given logger.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notice implements Notifier.
func (n *LogNotifier) Notice(message string, data map[string]any, dedupeKey string) {
	event := n.log.Info().Str("dedupeKey", dedupeKey)
	for key, value := range SanitizeData(data) {
		event = event.Interface(key, value)
	}
	event.Msg(message)
}

// Hide implements Notifier.
func (n *LogNotifier) Hide(dedupeKey string) {
	n.log.Debug().Str("dedupeKey", dedupeKey).Msg("notice hidden")
}
