package scenario

import (
	"time"

	"github.com/dmitrymomot/alertkit/pkg/alerts"
)

// Report is a snapshot of every inbox query over a registry.
type Report struct {
	Users    []UserReport    `json:"users"`
	Subjects []SubjectReport `json:"subjects"`
}

// UserReport holds a user's subscriptions and both inbox queries.
type UserReport struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Subscriptions []int64     `json:"subscriptions"`
	Unread        []AlertView `json:"unread"`
	UnreadActive  []AlertView `json:"unread_active"`
}

// SubjectReport holds both subject queries.
type SubjectReport struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Unread []AlertView `json:"unread"`
	Active []AlertView `json:"active"`
}

// AlertView is the printable form of an alert.
type AlertView struct {
	ID        int64      `json:"id"`
	Text      string     `json:"text"`
	Type      string     `json:"type"`
	Subject   int64      `json:"subject"`
	Recipient string     `json:"recipient"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	ReadBy    []int64    `json:"read_by"`
}

// BuildReport runs the four inbox queries for every registered user and subject.
func BuildReport(reg *alerts.Registry) Report {
	view := func(list []*alerts.Alert) []AlertView {
		out := make([]AlertView, 0, len(list))
		for _, a := range list {
			out = append(out, AlertView{
				ID:        a.ID,
				Text:      a.Text,
				Type:      a.Type.String(),
				Subject:   a.SubjectID,
				Recipient: reg.RecipientName(a),
				ExpiresAt: a.ExpiresAt,
				ReadBy:    a.ReadBy(),
			})
		}
		return out
	}

	var report Report
	for _, u := range reg.Users() {
		report.Users = append(report.Users, UserReport{
			ID:            u.ID,
			Name:          u.Name,
			Subscriptions: u.Subscriptions(),
			Unread:        view(reg.UnreadAlertsForUser(u.ID)),
			UnreadActive:  view(reg.UnreadNotExpiredAlertsForUser(u.ID)),
		})
	}

	for _, s := range reg.Subjects() {
		report.Subjects = append(report.Subjects, SubjectReport{
			ID:     s.ID,
			Name:   s.Name,
			Unread: view(reg.UnreadAlertsForSubject(s.ID)),
			Active: view(reg.UnexpiredAlertsForSubject(s.ID)),
		})
	}

	return report
}
