package constants

// Field Length Limits
const (
	PhoneLength    = 10
	MaxNameLength  = 100
	MaxEmailLength = 255
)

// Validation Patterns
const (
	PhonePattern = `^\d{10}$`
)

// Referral defaults
const (
	DefaultPolicyType = "Unknown"
	ReferralCodeLen   = 12
)
