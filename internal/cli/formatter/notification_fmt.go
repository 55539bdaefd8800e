package formatter

import (
	"strings"

	"github.com/alexanderramin/estimator/internal/domain"
)

// FormatNotification renders one notification on a single line.
func FormatNotification(n domain.Notification) string {
	style := NotificationStyle(n.Type)
	out := style.Render(NotificationIcon(n.Type) + " " + n.Title)
	if n.Message != "" {
		out += " " + Dim(n.Message)
	}
	if len(n.Actions) > 0 {
		labels := make([]string, len(n.Actions))
		for i, a := range n.Actions {
			labels[i] = "[" + a.Label + "]"
		}
		out += " " + StyleBlue.Render(strings.Join(labels, " "))
	}
	return out
}

// FormatNotifications renders the queue oldest first.
func FormatNotifications(list []domain.Notification) string {
	lines := make([]string, len(list))
	for i, n := range list {
		lines[i] = FormatNotification(n)
	}
	return strings.Join(lines, "\n")
}
