package supplychain

// CallerContext is what the identity subsystem tells us about a caller.
type CallerContext struct {
	UserID        string
	Username      string
	Authenticated bool
	Active        bool
	Staff         bool
}

// Anonymous is the caller context of a request without credentials.
var Anonymous = CallerContext{}

// Authorize allows a caller that is authenticated and active. Every other
// combination is denied with a FORBIDDEN error.
func Authorize(caller CallerContext) error {
	if !caller.Authenticated {
		return ErrNotAuthenticated
	}
	if !caller.Active {
		return ErrInactiveCaller
	}
	return nil
}

// AuthorizeStaff additionally requires the staff flag, which the admin
// console depends on.
func AuthorizeStaff(caller CallerContext) error {
	if err := Authorize(caller); err != nil {
		return err
	}
	if !caller.Staff {
		return ErrNotStaff
	}
	return nil
}
