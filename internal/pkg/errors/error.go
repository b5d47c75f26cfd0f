package xerrors

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the session and cart managers. Messages are safe to
// show to the shopper; raw transport causes are logged, never wrapped in here.
var (
	ErrUnauthenticated    = errors.New("you must be logged in")
	ErrStockExceeded      = errors.New("not enough stock available")
	ErrRemote             = errors.New("the store could not complete the request")
	ErrInvalidToken       = errors.New("invalid session token")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRegistration       = errors.New("could not register with those details")
	ErrNoPendingUndo      = errors.New("nothing to undo")
	ErrLineNotFound       = errors.New("product is not in the cart")
	ErrEmptyCart          = errors.New("the cart is empty")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrClosed             = errors.New("manager is closed")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
