// Package scenario replays YAML-described alert scenarios against an
// alerts.Registry and summarises the result.
//
// A scenario document looks like:
//
//	users:
//	  - name: Ann
//	  - name: Bob
//	subjects:
//	  - id: 1
//	    name: Deploys
//	subscriptions:
//	  - user: Ann
//	    subjects: [1]
//	alerts:
//	  - id: 1
//	    text: deploy finished
//	    type: informational
//	    subject: 1
//	  - id: 2
//	    text: your deploy failed
//	    type: Urgente
//	    subject: 1
//	    recipient: Bob
//	    expires_at: 2030-01-01T00:00:00Z
//	reads:
//	  - user: Ann
//	    alert: 1
//
// Alert types accept any label alerts.ParseType understands.
package scenario
