package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEventRow_FormatsInAuditTimeZone(t *testing.T) {
	e := Event{
		Timestamp: time.Date(2024, 3, 9, 18, 45, 7, 0, time.UTC),
		Name:      "Asha",
		Phone:     "9876543210",
		Action:    ReferralAction("acko-motor"),
		Status:    "single",
	}

	assert.Equal(t, []string{
		"10/03/2024, 00:15:07",
		"Asha",
		"",
		"9876543210",
		"Referral - acko-motor",
		"single",
	}, e.Row())
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "audit.users", RoutingKey("Users"))
	assert.Equal(t, "audit.quote-requests", RoutingKey("Quote Requests"))
}

func TestColumnRange(t *testing.T) {
	assert.Equal(t, "Users!A:F", columnRange("Users", 6))
	assert.Equal(t, "'Quote Requests'!A:F", columnRange("Quote Requests", 6))
	assert.Equal(t, "Applications!A:J", columnRange("Applications", 10))
	assert.Equal(t, "AA", columnLetter(27))
}
