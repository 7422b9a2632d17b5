package service

import "errors"

// Error kinds. Handlers translate a kind into an HTTP status; the message of
// the wrapping *Error is safe to show to clients.
var (
	ErrValidation    = errors.New("validation failed")
	ErrUnprocessable = errors.New("unprocessable entity")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrUpstream      = errors.New("upstream unavailable")
	ErrInternal      = errors.New("internal error")
)

// Error is a domain error with a client-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func invalid(msg string) error {
	return newError(ErrValidation, msg)
}

func notFound(msg string) error {
	return newError(ErrNotFound, msg)
}

func forbidden(msg string) error {
	return newError(ErrForbidden, msg)
}

var (
	ErrSeriesNotFound       = notFound("Series not found")
	ErrSeriesDetailNotFound = notFound("Series detail not found")
	ErrUserNotFound         = notFound("User not found")
	ErrListNotFound         = notFound("List not found")
	ErrListItemNotFound     = notFound("Series not in list")
	ErrIssueNotFound        = notFound("Issue not found")
	ErrThreadNotFound       = notFound("Thread not found")
	ErrPostNotFound         = notFound("Post not found")
	ErrParentNotFound       = notFound("Parent post not found")

	ErrEmailTaken    = newError(ErrConflict, "Email already exists")
	ErrUsernameTaken = newError(ErrConflict, "Username already exists")

	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid credentials")
	ErrInvalidGoogleToken = newError(ErrUnauthorized, "Invalid Google token")
	ErrNotAuthenticated   = newError(ErrUnauthorized, "Could not validate credentials")
	ErrEmailNotVerified   = forbidden("Email not verified")
	ErrAdminRequired      = forbidden("Admin access required")

	ErrAlreadyVoted    = forbidden("You already voted on this category")
	ErrInvalidVote     = invalid("Invalid vote")
	ErrListLimit       = invalid("You can only create up to 2 lists.")
	ErrListNameTaken   = invalid("You already have a list with that name.")
	ErrThreadLimit     = forbidden("Thread limit reached (10). Delete an existing thread to create a new one.")
	ErrThreadLocked    = forbidden("Thread is locked")
	ErrParentElsewhere = invalid("Parent post is from another thread")
	ErrPostElsewhere   = invalid("Post is not in this thread")
	ErrOpeningPost     = invalid("Delete the thread to remove the original post.")
	ErrNotPostOwner    = forbidden("Admins or the post owner may delete this post.")
	ErrNotPostEditor   = forbidden("Admins or the post owner may edit this post.")
	ErrNotThreadOwner  = forbidden("Admins or the thread owner may delete this thread.")
	ErrNotThreadEditor = forbidden("Admins or the thread owner may edit this thread.")

	ErrSignupMailFailed = newError(ErrInternal, "Signup failed during email sending")
)
