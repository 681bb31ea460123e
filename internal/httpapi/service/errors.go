package service

import "errors"

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrNotCreator         = errors.New("only creators can upload videos")
	ErrNotStaff           = errors.New("staff access required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// FieldErrors collects per-field validation messages so a form can display
// everything wrong at once instead of one failure at a time.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	return "validation failed"
}

// Add appends a message for a field, keeping earlier messages.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether any field failed.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

// AsFieldErrors unwraps err into FieldErrors when it carries them.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
