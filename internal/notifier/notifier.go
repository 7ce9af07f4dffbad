// Package notifier announces newly awarded sites.
//
// Implementations receive the awards detected in a run. The Twitter
// notifier posts one status per award with OAuth credentials taken from the
// environment; the dry-run notifier prints what would be posted and is the
// default.
package notifier

import (
	"github.com/jmteo/gls-tracker/internal/site"
)

// Notifier posts announcements for newly awarded sites.
type Notifier interface {
	Notify(awards []site.Awarded) error
}
