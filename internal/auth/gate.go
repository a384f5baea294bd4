package auth

// Authorize admits p to a route that requires level.
func Authorize(p Principal, level AccessLevel) error {
	var ok bool
	switch level {
	case Public:
		ok = true
	case ApiKey:
		ok = p.IsServiceAccount()
	case Authenticated:
		ok = p.IsUser() || p.IsServiceAccount()
	case AdminOnly:
		ok = p.IsAdmin()
	}
	if !ok {
		return ErrForbidden
	}
	return nil
}
