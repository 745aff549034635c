package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Test sessions ─────────────────────────────────────────────────
	ErrAccessDenied     ErrCode = "ACCESS_DENIED"
	ErrInvalidOption    ErrCode = "INVALID_OPTION"
	ErrSessionNotActive ErrCode = "SESSION_NOT_ACTIVE"
	ErrAudioLoadFailed  ErrCode = "AUDIO_LOAD_FAILED"
	ErrPersistence      ErrCode = "PERSISTENCE_FAILED"
	ErrNoQuestions      ErrCode = "NO_QUESTIONS"

	// ─── Subscriptions ─────────────────────────────────────────────────
	ErrSubscriptionRequired ErrCode = "SUBSCRIPTION_REQUIRED"
	ErrSubscriptionExists   ErrCode = "SUBSCRIPTION_EXISTS"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email or password is incorrect."
	case ErrSessionInvalidated:
		return "Your session has ended. Please log in again."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid."
	case ErrTokenExpired:
		return "The authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "The ID format is invalid."
	case ErrInvalidPayload:
		return "The request payload is invalid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The resource was not found."
	case ErrConflict:
		return "The resource already exists."

	// ─── Test sessions ─────────────────────────────────────────────────
	case ErrAccessDenied:
		return "This paper requires an active subscription."
	case ErrInvalidOption:
		return "The selected option is not valid for this question."
	case ErrSessionNotActive:
		return "There is no active test session."
	case ErrAudioLoadFailed:
		return "The audio could not be loaded. You can retry or answer without it."
	case ErrPersistence:
		return "Your result could not be saved. The score shown is still valid."
	case ErrNoQuestions:
		return "This paper has no questions."

	// ─── Subscriptions ─────────────────────────────────────────────────
	case ErrSubscriptionRequired:
		return "An active subscription is required for premium content."
	case ErrSubscriptionExists:
		return "An active subscription already exists."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
