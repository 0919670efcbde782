// Package audit records identity and referral activity as append-only rows.
// Callers emit Events; a Dispatcher delivers them to a Sink in the background.
package audit

import (
	"context"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/Payphone-Digital/referral/internal/constants"
)

// Event is one audit row on the Users sheet.
type Event struct {
	Timestamp time.Time
	Name      string
	Email     string
	Phone     string
	Action    string
	Status    string
}

// Emitter accepts events without blocking the caller on delivery.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(ctx context.Context, event Event)

func (f EmitterFunc) Emit(ctx context.Context, event Event) { f(ctx, event) }

// Discard drops every event.
var Discard Emitter = EmitterFunc(func(context.Context, Event) {})

var auditLocation = mustLoadLocation(constants.AuditTimeZone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// tzdata is embedded, so this only happens with a bad constant.
		panic(err)
	}
	return loc
}

// FormatTimestamp renders t the way every sheet row is stamped.
func FormatTimestamp(t time.Time) string {
	return t.In(auditLocation).Format(constants.AuditTimeLayout)
}

// Row returns the six sheet columns for e.
func (e Event) Row() []string {
	return []string{
		FormatTimestamp(e.Timestamp),
		e.Name,
		e.Email,
		e.Phone,
		e.Action,
		e.Status,
	}
}

// ReferralAction builds the action column for a partner click-through.
func ReferralAction(companyID string) string {
	return constants.ActionReferralPrefix + companyID
}

// RoutingKey maps a sheet name to a lowercase dotted key, e.g.
// "Quote Requests" becomes "audit.quote-requests".
func RoutingKey(sheet string) string {
	return "audit." + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sheet)), " ", "-")
}
