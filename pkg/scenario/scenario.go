package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/alertkit/pkg/alerts"
)

// Scenario is a scripted sequence of registry operations.
// Users are referred to by name; the registry assigns their ids in the
// order they are listed.
type Scenario struct {
	Users         []UserSpec         `yaml:"users"`
	Subjects      []alerts.Subject   `yaml:"subjects"`
	Subscriptions []SubscriptionSpec `yaml:"subscriptions"`
	Alerts        []AlertSpec        `yaml:"alerts"`
	Reads         []ReadSpec         `yaml:"reads"`
}

// UserSpec registers one user. Names must be unique within a scenario.
type UserSpec struct {
	Name string `yaml:"name"`
}

// SubscriptionSpec subscribes a user to the listed subject ids.
type SubscriptionSpec struct {
	User     string  `yaml:"user"`
	Subjects []int64 `yaml:"subjects"`
}

// AlertSpec publishes one alert. Recipient is a user name; empty means broadcast.
type AlertSpec struct {
	ID        int64  `yaml:"id"`
	Text      string `yaml:"text"`
	Type      string `yaml:"type"`
	Subject   int64  `yaml:"subject"`
	ExpiresAt string `yaml:"expires_at,omitempty"`
	Recipient string `yaml:"recipient,omitempty"`
}

// ReadSpec marks an alert as read by a user.
type ReadSpec struct {
	User  string `yaml:"user"`
	Alert int64  `yaml:"alert"`
}

// timeLayouts lists accepted expiration formats. Times without a zone are UTC.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Load decodes a scenario from YAML. Unknown fields are rejected.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &s, nil
		}
		return nil, errors.Join(ErrInvalidScenario, err)
	}

	return &s, nil
}

// LoadFile decodes the scenario stored at path.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// ReplayOption configures Replay.
type ReplayOption func(*replayConfig)

type replayConfig struct {
	onUser func(*alerts.User)
}

// OnUserRegistered calls fn with each user as soon as it is registered,
// before any alert is published.
func OnUserRegistered(fn func(*alerts.User)) ReplayOption {
	return func(c *replayConfig) {
		c.onUser = fn
	}
}

// Replay applies the scenario to reg: users, subjects, subscriptions, then
// alerts in order, then reads.
func (s *Scenario) Replay(ctx context.Context, reg *alerts.Registry, opts ...ReplayOption) error {
	var cfg replayConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	users := make(map[string]*alerts.User, len(s.Users))
	for _, u := range s.Users {
		if _, dup := users[u.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateUser, u.Name)
		}
		user := reg.RegisterUser(u.Name)
		users[u.Name] = user
		if cfg.onUser != nil {
			cfg.onUser(user)
		}
	}

	lookup := func(name string) (*alerts.User, error) {
		u, ok := users[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUser, name)
		}
		return u, nil
	}

	for _, subj := range s.Subjects {
		reg.RegisterSubject(subj)
	}

	for _, sub := range s.Subscriptions {
		u, err := lookup(sub.User)
		if err != nil {
			return fmt.Errorf("subscription: %w", err)
		}
		for _, id := range sub.Subjects {
			u.SubscribeToSubject(id)
		}
	}

	for _, spec := range s.Alerts {
		a, err := buildAlert(spec, lookup)
		if err != nil {
			return fmt.Errorf("alert %d: %w", spec.ID, err)
		}
		reg.SendAlert(ctx, a)
	}

	for _, read := range s.Reads {
		u, err := lookup(read.User)
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		if err := reg.MarkAlertAsRead(u.ID, read.Alert); err != nil {
			return fmt.Errorf("read alert %d: %w", read.Alert, err)
		}
	}

	return nil
}

func buildAlert(spec AlertSpec, lookup func(string) (*alerts.User, error)) (*alerts.Alert, error) {
	typ, err := alerts.ParseType(spec.Type)
	if err != nil {
		return nil, err
	}

	var opts []alerts.AlertOption
	if spec.ExpiresAt != "" {
		t, err := parseTime(spec.ExpiresAt)
		if err != nil {
			return nil, err
		}
		opts = append(opts, alerts.WithExpiration(t))
	}
	if spec.Recipient != "" {
		u, err := lookup(spec.Recipient)
		if err != nil {
			return nil, err
		}
		opts = append(opts, alerts.WithRecipient(u.ID))
	}

	return alerts.NewAlert(spec.ID, spec.Text, typ, spec.Subject, opts...), nil
}

func parseTime(value string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
}
