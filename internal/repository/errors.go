package repository

import "github.com/immxrtalbeast/basha_lagbe/internal/domain"

// storeError keeps a short message while classifying as one of the domain errors.
type storeError struct {
	msg  string
	kind error
}

func (e *storeError) Error() string { return e.msg }

func (e *storeError) Unwrap() error { return e.kind }

func (e *storeError) Class() error { return e.kind }

var (
	ErrUserNotFound    error = &storeError{"user not found", domain.ErrNotFound}
	ErrUserEmailExists error = &storeError{"user with email already exists", domain.ErrValidation}

	ErrListingNotFound error = &storeError{"listing not found", domain.ErrNotFound}

	ErrLeaseRequestNotFound     error = &storeError{"lease request not found", domain.ErrNotFound}
	ErrActiveLeaseRequestExists error = &storeError{"an active lease request for this listing already exists", domain.ErrValidation}
	ErrLeaseRequestConflict     error = &storeError{"lease request was modified concurrently, reload and retry", domain.ErrConflict}

	ErrBookingNotFound       error = &storeError{"booking not found", domain.ErrNotFound}
	ErrBookingExists         error = &storeError{"booking already exists for this lease request", domain.ErrValidation}
	ErrBookingIntentNotFound error = &storeError{"booking intent not found", domain.ErrNotFound}

	ErrConversationNotFound error = &storeError{"conversation not found", domain.ErrNotFound}

	ErrCommunityNotFound   error = &storeError{"community not found", domain.ErrNotFound}
	ErrCommunityNameExists error = &storeError{"community with this name already exists", domain.ErrValidation}
	ErrPostNotFound        error = &storeError{"post not found", domain.ErrNotFound}
	ErrCommentNotFound     error = &storeError{"comment not found", domain.ErrNotFound}
)
