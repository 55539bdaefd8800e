package domain

import "time"

const (
	// DefaultNotificationDuration applies when a notification has no duration.
	DefaultNotificationDuration = 5 * time.Second
	// DefaultErrorDuration is the longer default for error notifications.
	DefaultErrorDuration = 8 * time.Second
)

// NotificationAction is a button offered alongside a notification.
type NotificationAction struct {
	ID      string
	Label   string
	Handler func()
}

// Notification is a transient user-facing message.
type Notification struct {
	ID         string
	Title      string
	Message    string
	Type       NotificationType
	Duration   time.Duration
	Persistent bool
	Actions    []NotificationAction
	Timestamp  time.Time
}

// ExpiresAfter returns how long the notification stays visible and whether
// it expires at all.
func (n Notification) ExpiresAfter() (time.Duration, bool) {
	if n.Persistent {
		return 0, false
	}
	if n.Duration > 0 {
		return n.Duration, true
	}
	if n.Type == NotifyError {
		return DefaultErrorDuration, true
	}
	return DefaultNotificationDuration, true
}
