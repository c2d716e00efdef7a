package alerts

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/text/cases"
)

// Type represents the alert severity.
type Type string

const (
	TypeInformational Type = "informational"
	TypeUrgent        Type = "urgent"
)

// typeLabels maps folded labels to canonical types.
// Spanish labels come from the data sets the registry was first fed with.
var typeLabels = map[string]Type{
	"informational": TypeInformational,
	"informativa":   TypeInformational,
	"info":          TypeInformational,
	"urgent":        TypeUrgent,
	"urgente":       TypeUrgent,
}

// ParseType converts a label into a Type, ignoring case.
func ParseType(label string) (Type, error) {
	folded := cases.Fold().String(label)
	if t, ok := typeLabels[folded]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, label)
}

// IsValid reports whether t is one of the known alert types.
func (t Type) IsValid() bool {
	return t == TypeInformational || t == TypeUrgent
}

func (t Type) String() string {
	return string(t)
}

// Subject is a topic alerts are published against.
type Subject struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Alert is a message published against a subject, either to every
// subscriber (broadcast) or to a single recipient.
// Everything except the read-set is fixed once the alert is published.
type Alert struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Type        Type       `json:"type"`
	SubjectID   int64      `json:"subject_id"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RecipientID int64      `json:"recipient_id,omitempty"` // 0 = broadcast

	readBy map[int64]struct{}
	mu     sync.RWMutex
}

// AlertOption configures an Alert.
type AlertOption func(*Alert)

// WithExpiration sets the moment after which the alert is no longer active.
func WithExpiration(t time.Time) AlertOption {
	return func(a *Alert) {
		a.ExpiresAt = &t
	}
}

// WithRecipient targets the alert at a single user.
func WithRecipient(userID int64) AlertOption {
	return func(a *Alert) {
		a.RecipientID = userID
	}
}

// NewAlert creates an alert. The id is assigned by the publisher.
func NewAlert(id int64, text string, typ Type, subjectID int64, opts ...AlertOption) *Alert {
	a := &Alert{
		ID:        id,
		Text:      text,
		Type:      typ,
		SubjectID: subjectID,
		readBy:    make(map[int64]struct{}),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// targetedAt returns a copy of the alert addressed to userID. Reads already
// recorded on a are carried over.
func (a *Alert) targetedAt(userID int64) *Alert {
	a.mu.RLock()
	defer a.mu.RUnlock()

	c := NewAlert(a.ID, a.Text, a.Type, a.SubjectID, WithRecipient(userID))
	if a.ExpiresAt != nil {
		exp := *a.ExpiresAt
		c.ExpiresAt = &exp
	}
	for id := range a.readBy {
		c.readBy[id] = struct{}{}
	}
	return c
}

// MarkAsRead records that the user has read the alert. Calling it again is a no-op.
func (a *Alert) MarkAsRead(userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.readBy == nil {
		a.readBy = make(map[int64]struct{})
	}
	a.readBy[userID] = struct{}{}
}

// IsReadBy reports whether the user has marked the alert as read.
func (a *Alert) IsReadBy(userID int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	_, ok := a.readBy[userID]
	return ok
}

// ReadCount returns how many distinct users have read the alert.
func (a *Alert) ReadCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.readBy)
}

// ReadBy returns the ids of users who read the alert in ascending order.
func (a *Alert) ReadBy() []int64 {
	a.mu.RLock()
	ids := make([]int64, 0, len(a.readBy))
	for id := range a.readBy {
		ids = append(ids, id)
	}
	a.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// IsBroadcast reports whether the alert has no explicit recipient.
func (a *Alert) IsBroadcast() bool {
	return a.RecipientID == 0
}

// IsAddressedTo reports whether the user is the recipient or the alert is a broadcast.
func (a *Alert) IsAddressedTo(userID int64) bool {
	return a.IsBroadcast() || a.RecipientID == userID
}

// IsUnreadFor reports whether the alert is addressed to the user and not yet read by them.
func (a *Alert) IsUnreadFor(userID int64) bool {
	return a.IsAddressedTo(userID) && !a.IsReadBy(userID)
}

// IsExpiredAt reports whether the alert has expired at the given moment.
// An alert expiring exactly at now is considered expired.
func (a *Alert) IsExpiredAt(now time.Time) bool {
	if a.ExpiresAt == nil {
		return false
	}
	return !a.ExpiresAt.After(now)
}

// IsExpired checks expiration against the current wall-clock time.
func (a *Alert) IsExpired() bool {
	return a.IsExpiredAt(time.Now())
}
