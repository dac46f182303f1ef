package auth

// tokenError is returned when the authorization token is missing or malformed
type tokenError struct {
	found bool
}

func (t *tokenError) Error() string {
	if t.found {
		return "The token is invalid"
	}
	return "The token is not found"
}

// signatureError is returned when the token signature cannot be verified
type signatureError struct{}

func (s *signatureError) Error() string {
	return "The token signature is invalid"
}
