package alerts

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// BroadcastRecipient is the recipient name reported for broadcast alerts.
const BroadcastRecipient = "everyone"

// Registry holds registered users and subjects and every published alert,
// and answers queries over them.
//
// Subjects and recipients referenced by an alert are not validated, and a
// subject registered twice under one id replaces the earlier one.
type Registry struct {
	users    map[int64]*User
	subjects map[int64]*Subject
	alerts   []*Alert
	lastUser int64

	deliverer Deliverer
	logger    *slog.Logger
	now       func() time.Time

	mu sync.RWMutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger for the Registry. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDeliverer sets where published alerts are pushed in real time.
func WithDeliverer(d Deliverer) Option {
	return func(r *Registry) {
		if d != nil {
			r.deliverer = d
		}
	}
}

// WithNowFunc replaces the clock used by expiration queries.
func WithNowFunc(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		users:     make(map[int64]*User),
		subjects:  make(map[int64]*Subject),
		deliverer: NoOpDeliverer{},
		logger:    slog.Default(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RegisterUser creates a user with the next id, starting at 1.
func (r *Registry) RegisterUser(name string) *User {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastUser++
	u := newUser(r.lastUser, name)
	r.users[u.ID] = u

	return u
}

// RegisterSubject stores the subject under its own id, replacing any
// subject previously registered with that id.
func (r *Registry) RegisterSubject(s Subject) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subjects[s.ID] = &s
}

// User returns the registered user with the given id.
func (r *Registry) User(id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Subject returns the registered subject with the given id.
func (r *Registry) Subject(id int64) (*Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.subjects[id]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	return s, nil
}

// Users returns registered users ordered by id.
func (r *Registry) Users() []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedUsers()
}

// Subjects returns registered subjects ordered by id.
func (r *Registry) Subjects() []*Subject {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.SortedFunc(maps.Values(r.subjects), func(a, b *Subject) int {
		return cmp.Compare(a.ID, b.ID)
	})
}

// Subscribe subscribes a registered user to a subject.
// The subject does not have to be registered.
func (r *Registry) Subscribe(userID, subjectID int64) error {
	u, err := r.User(userID)
	if err != nil {
		return err
	}
	u.SubscribeToSubject(subjectID)
	return nil
}

// SendAlert publishes the alert and pushes it to its audience.
// Delivery is best effort: failures are logged and never undo publication.
func (r *Registry) SendAlert(ctx context.Context, alert *Alert) {
	r.mu.Lock()
	r.alerts = append(r.alerts, alert)
	audience := r.audience(alert)
	r.mu.Unlock()

	r.logger.LogAttrs(ctx, slog.LevelDebug, "alert published",
		logger.AlertID(alert.ID),
		logger.SubjectID(alert.SubjectID),
		logger.AlertType(alert.Type.String()),
		logger.Count(len(audience)),
	)

	for _, u := range audience {
		if err := r.deliverer.Deliver(ctx, u.ID, alert); err != nil {
			r.logger.LogAttrs(ctx, slog.LevelWarn, "failed to deliver alert, but it was published",
				logger.AlertID(alert.ID),
				logger.UserID(u.ID),
				logger.Error(err),
			)
		}
	}
}

// SendAlertToUser publishes a copy of the alert addressed to a registered
// user and returns the published copy. The alert passed in is left untouched,
// so one template can be sent to several users. Nothing is published when
// the user is unknown.
func (r *Registry) SendAlertToUser(ctx context.Context, alert *Alert, userID int64) (*Alert, error) {
	if _, err := r.User(userID); err != nil {
		return nil, fmt.Errorf("send alert %d: %w", alert.ID, err)
	}

	targeted := alert.targetedAt(userID)
	r.SendAlert(ctx, targeted)

	return targeted, nil
}

// Audience returns the users a newly published alert is pushed to: the
// recipient of a targeted alert, or the subject's subscribers for a
// broadcast. Users are ordered by id.
func (r *Registry) Audience(alert *Alert) []*User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.audience(alert)
}

func (r *Registry) audience(alert *Alert) []*User {
	if !alert.IsBroadcast() {
		if u, ok := r.users[alert.RecipientID]; ok {
			return []*User{u}
		}
		return nil
	}

	var subscribers []*User
	for _, u := range r.sortedUsers() {
		if u.IsSubscribed(alert.SubjectID) {
			subscribers = append(subscribers, u)
		}
	}
	return subscribers
}

// RecipientName returns the name of the alert's recipient, or
// BroadcastRecipient for broadcasts. Unknown recipients yield "".
func (r *Registry) RecipientName(alert *Alert) string {
	if alert.IsBroadcast() {
		return BroadcastRecipient
	}

	u, err := r.User(alert.RecipientID)
	if err != nil {
		return ""
	}
	return u.Name
}

// Alert returns the first published alert with the given id.
func (r *Registry) Alert(id int64) (*Alert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.alerts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, ErrAlertNotFound
}

// Alerts returns every published alert in publication order.
func (r *Registry) Alerts() []*Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.alerts)
}

// MarkAlertAsRead marks the alert as read by the user, resolving both ids.
func (r *Registry) MarkAlertAsRead(userID, alertID int64) error {
	u, err := r.User(userID)
	if err != nil {
		return err
	}

	a, err := r.Alert(alertID)
	if err != nil {
		return err
	}

	u.MarkAlertAsRead(a)
	return nil
}

// UnreadAlertsForUser returns alerts addressed to the user that they have
// not read, urgent first.
func (r *Registry) UnreadAlertsForUser(userID int64) []*Alert {
	result := r.filter(func(a *Alert) bool {
		return a.IsUnreadFor(userID)
	})
	SortByPriority(result)
	return result
}

// UnreadAlertsForSubject returns alerts on the subject that at least one
// registered user still has to read, urgent first.
func (r *Registry) UnreadAlertsForSubject(subjectID int64) []*Alert {
	r.mu.RLock()
	users := r.sortedUsers()
	r.mu.RUnlock()

	result := r.filter(func(a *Alert) bool {
		if a.SubjectID != subjectID {
			return false
		}
		return slices.ContainsFunc(users, func(u *User) bool {
			return a.IsUnreadFor(u.ID)
		})
	})
	SortByPriority(result)
	return result
}

// UnreadNotExpiredAlertsForUser returns unexpired alerts addressed to the
// user that they have not read, in publication order.
func (r *Registry) UnreadNotExpiredAlertsForUser(userID int64) []*Alert {
	now := r.now()
	return r.filter(func(a *Alert) bool {
		return !a.IsExpiredAt(now) && a.IsUnreadFor(userID)
	})
}

// UnexpiredAlertsForSubject returns unexpired alerts on the subject,
// regardless of read state, urgent first.
func (r *Registry) UnexpiredAlertsForSubject(subjectID int64) []*Alert {
	now := r.now()
	result := r.filter(func(a *Alert) bool {
		return a.SubjectID == subjectID && !a.IsExpiredAt(now)
	})
	SortByPriority(result)
	return result
}

func (r *Registry) filter(keep func(*Alert) bool) []*Alert {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Alert, 0, len(r.alerts))
	for _, a := range r.alerts {
		if keep(a) {
			result = append(result, a)
		}
	}
	return result
}

// sortedUsers must be called with r.mu held.
func (r *Registry) sortedUsers() []*User {
	return slices.SortedFunc(maps.Values(r.users), func(a, b *User) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
