// Package notification delivers executed-trade alerts to external channels.
package notification

import (
	"context"
	"log"
)

// AlertLevel represents the severity of an alert.
type AlertLevel string

const (
	AlertInfo     AlertLevel = "INFO"     // entries
	AlertWarning  AlertLevel = "WARNING"  // trend exits
	AlertCritical AlertLevel = "CRITICAL" // hard stop exits
)

// Alert represents a notification to be sent.
type Alert struct {
	Level   AlertLevel `json:"level"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers an alert. Returns error if delivery fails; the scan
	// logs and continues, it never blocks on delivery.
	Send(ctx context.Context, alert Alert) error
}

// LogNotifier writes alerts to the process log. Default backend when no
// webhook is configured.
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, alert Alert) error {
	log.Printf("[notify] [%s] %s: %s", alert.Level, alert.Title, alert.Message)
	return nil
}
