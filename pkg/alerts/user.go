package alerts

import (
	"slices"
	"sync"
)

// User is a registered alert recipient.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	subscriptions map[int64]struct{}
	mu            sync.RWMutex
}

func newUser(id int64, name string) *User {
	return &User{
		ID:            id,
		Name:          name,
		subscriptions: make(map[int64]struct{}),
	}
}

// SubscribeToSubject opts the user into alerts published on the subject.
func (u *User) SubscribeToSubject(subjectID int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.subscriptions[subjectID] = struct{}{}
}

// IsSubscribed reports whether the user has subscribed to the subject.
func (u *User) IsSubscribed(subjectID int64) bool {
	u.mu.RLock()
	defer u.mu.RUnlock()

	_, ok := u.subscriptions[subjectID]
	return ok
}

// Subscriptions returns subscribed subject ids in ascending order.
func (u *User) Subscriptions() []int64 {
	u.mu.RLock()
	ids := make([]int64, 0, len(u.subscriptions))
	for id := range u.subscriptions {
		ids = append(ids, id)
	}
	u.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// MarkAlertAsRead records the alert as read by this user.
func (u *User) MarkAlertAsRead(alert *Alert) {
	alert.MarkAsRead(u.ID)
}

// UnreadAlerts filters the given alerts down to those addressed to the user
// and not yet read. Order is preserved.
func (u *User) UnreadAlerts(alerts []*Alert) []*Alert {
	unread := make([]*Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.IsUnreadFor(u.ID) {
			unread = append(unread, a)
		}
	}
	return unread
}
