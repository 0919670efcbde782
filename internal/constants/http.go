package constants

// HTTP Header Names
const (
	HeaderContentType    = "Content-Type"
	HeaderAuthorization  = "Authorization"
	HeaderUserAgent      = "User-Agent"
	HeaderXRequestID     = "X-Request-ID"
	HeaderXTraceID       = "X-Trace-ID"
	HeaderXCorrelationID = "X-Correlation-ID"
	HeaderXForwardedFor  = "X-Forwarded-For"
	HeaderXRealIP        = "X-Real-IP"
)

const BearerScheme = "Bearer"

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// Common HTTP Error Messages
const (
	MsgUnauthorized    = "Unauthorized"
	MsgNoToken         = "No token provided"
	MsgInvalidToken    = "Invalid token"
	MsgBadRequest      = "Invalid request"
	MsgInternalError   = "Internal server error"
	MsgNotFound        = "Resource not found"
	MsgTooManyRequests = "Rate limit exceeded"
)

// Identity and referral messages returned to API clients
const (
	MsgPhonePasswordRequired = "Phone number and password are required"
	MsgPhoneFormat           = "Phone number must be 10 digits"
	MsgPasswordTooLong       = "Password must be at most 72 bytes"
	MsgPhoneRegistered       = "Phone number already registered"
	MsgInvalidCredentials    = "Invalid credentials"
	MsgUserNotFound          = "User not found"
	MsgPartnerNotFound       = "Partner not found"
	MsgPhoneCompanyRequired  = "Phone and company ID are required"
	MsgRequiredFieldsMissing = "Required fields missing"

	MsgRegistered      = "User registered successfully"
	MsgLoggedOut       = "Logged out successfully"
	MsgReferralTracked = "Referral tracked successfully"
)

// Form submission messages
const (
	MsgQuoteSaved          = "Quote request submitted successfully"
	MsgQuoteFailed         = "Failed to save quote request"
	MsgApplicationSaved    = "Application submitted successfully"
	MsgApplicationFailed   = "Failed to save application"
	MsgConsultationSaved   = "Consultation request submitted successfully"
	MsgConsultationFailed  = "Failed to save consultation request"
	MsgSheetsInitialized   = "Sheets initialized successfully"
	MsgSheetsInitFailed    = "Failed to initialize sheets"
	MsgSheetsAdminDisabled = "Audit sink does not manage sheets"
)
