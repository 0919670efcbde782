package constants

// Spreadsheet tabs
const (
	SheetUsers         = "Users"
	SheetQuotes        = "Quote Requests"
	SheetApplications  = "Applications"
	SheetConsultations = "Consultations"
)

// Audit actions
const (
	ActionRegistered     = "Registered"
	ActionLoginSuccess   = "Login Success"
	ActionLoginFailed    = "Login Failed"
	ActionLogout         = "Logout"
	ActionReferralPrefix = "Referral - "
)

// Audit statuses
const (
	StatusActive          = "Active"
	StatusInactive        = "Inactive"
	StatusInvalidPhone    = "Invalid Phone"
	StatusInvalidPassword = "Invalid Password"
)

// AuditTimeZone and AuditTimeLayout render row timestamps the way the
// spreadsheet has always shown them ("14/10/2026, 09:15:02").
const (
	AuditTimeZone   = "Asia/Kolkata"
	AuditTimeLayout = "02/01/2006, 15:04:05"
)

// SheetHeaders lists the header row written to each tab on initialization.
var SheetHeaders = map[string][]string{
	SheetUsers:         {"Timestamp", "Name", "Email", "Phone", "Action", "Status"},
	SheetQuotes:        {"Timestamp", "Name", "Email", "Phone", "Insurance Type", "Coverage"},
	SheetApplications:  {"Timestamp", "Name", "Email", "Phone", "Date of Birth", "Gender", "Address", "Insurance Type", "Previous Insurance", "Requirements"},
	SheetConsultations: {"Timestamp", "Name", "Email", "Phone", "Preferred Date", "Preferred Time", "Consultation Type", "Current Insurance", "Budget", "Message"},
}

// SheetOrder is the order tabs are created in.
var SheetOrder = []string{SheetUsers, SheetQuotes, SheetApplications, SheetConsultations}
