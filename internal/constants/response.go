package constants

// Keys of the JSON error body. Every non-2xx response carries a message;
// details are only present when there is something to add.
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
)

func BuildErrorResponse(message string, details ...string) map[string]any {
	response := map[string]any{ResponseFieldMessage: message}
	if len(details) > 0 {
		response[ResponseFieldDetails] = details
	}
	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{ResponseFieldMessage: message}
}
