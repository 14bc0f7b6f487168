package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: not authenticated or wrong confirmation password.
	StatusUnauthorized = 401
	// StatusForbidden - 403: role not allowed.
	StatusForbidden = 403
	// StatusNotFound - 404: resource does not exist.
	StatusNotFound = 404
	// StatusConflict - 409: state does not allow the operation.
	StatusConflict = 409
	// StatusTooManyRequests - 429: rate limited.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: internal error.
	StatusInternalServerError = 500
)

// General error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: missing or invalid session.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: too many requests.
	ErrTooManyRequests
	// ErrForbidden - 403: role not allowed.
	ErrForbidden
)

// User errors (101xxx).
const (
	// ErrUserNotFound - 404: user not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserPasswordIncorrect - 401: wrong username or password.
	ErrUserPasswordIncorrect
)

// Station errors (102xxx).
const (
	// ErrStationNotFound - 404: station not found.
	ErrStationNotFound int = iota + 102000
)

// Maintenance errors (103xxx).
const (
	// ErrMaintenanceNotFound - 404: maintenance not found.
	ErrMaintenanceNotFound int = iota + 103000
	// ErrDeletePasswordIncorrect - 401: wrong deletion password.
	ErrDeletePasswordIncorrect
	// ErrInvalidTransition - 409: status transition not allowed.
	ErrInvalidTransition
	// ErrReportGeneration - 500: PDF could not be generated or stored.
	ErrReportGeneration
)

// Checklist and photo errors (104xxx).
const (
	// ErrChecklistItemNotFound - 404: checklist item not found.
	ErrChecklistItemNotFound int = iota + 104000
	// ErrPhotoInvalid - 400: photo payload rejected.
	ErrPhotoInvalid
	// ErrStorage - 500: object store failure.
	ErrStorage
)

// Draft errors (106xxx).
const (
	// ErrDraftNotFound - 404: no live draft.
	ErrDraftNotFound int = iota + 106000
	// ErrDraftStore - 500: draft store unavailable.
	ErrDraftStore
)

// Database errors (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
)
