package logger

import (
	"log/slog"
	"time"
)

// Error records err under the key "error".
// A nil error yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component records the emitting component under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// UserID records a user identifier under the key "user_id".
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// SubjectID records a subject identifier under the key "subject_id".
func SubjectID(id int64) slog.Attr {
	return slog.Int64("subject_id", id)
}

// AlertID records an alert identifier under the key "alert_id".
func AlertID(id int64) slog.Attr {
	return slog.Int64("alert_id", id)
}

// AlertType records the alert severity under the key "alert_type".
func AlertType(t string) slog.Attr {
	return slog.String("alert_type", t)
}

// SubscriberID records a feed subscriber identifier under the key "subscriber_id".
func SubscriberID(id string) slog.Attr {
	return slog.String("subscriber_id", id)
}

// Count records a quantity under the key "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Duration records d under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Group nests attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}
