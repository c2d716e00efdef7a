// Package alerts implements a publish/subscribe alert registry.
//
// Users subscribe to subjects. Alerts are published against a subject, either
// to everyone (broadcast) or to a single recipient, and each alert remembers
// which users have read it. The Registry answers the usual inbox queries:
//
//	reg := alerts.NewRegistry()
//	ann := reg.RegisterUser("Ann")
//	reg.RegisterSubject(alerts.Subject{ID: 1, Name: "Deploys"})
//	ann.SubscribeToSubject(1)
//
//	reg.SendAlert(ctx, alerts.NewAlert(1, "rollback in progress", alerts.TypeUrgent, 1))
//
//	unread := reg.UnreadAlertsForUser(ann.ID)
//	ann.MarkAlertAsRead(unread[0])
//
// Users, subjects and recipients are identified by id. User ids are assigned
// by the registry starting at 1, so a zero RecipientID marks a broadcast.
//
// # Ordering
//
// Every query except UnreadNotExpiredAlertsForUser returns urgent alerts
// before informational ones. Within a type, publication order is kept.
//
// # Real-time delivery
//
// A Registry built WithDeliverer pushes every published alert to its
// audience: the recipient, or the subject's subscribers for a broadcast.
// FeedDeliverer keeps an in-memory feed per user for transport layers to
// stream from:
//
//	feeds := alerts.NewFeedDeliverer(16)
//	reg := alerts.NewRegistry(alerts.WithDeliverer(feeds))
//
//	sub := feeds.Subscribe(ctx, ann.ID)
//	defer sub.Close()
//	for msg := range sub.Receive(ctx) {
//	    fmt.Println(msg.Data.Text)
//	}
//
// Inbox queries do not look at subscriptions: a broadcast counts as
// addressed to every registered user, subscribed or not.
package alerts
