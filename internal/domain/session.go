package domain

// Session is the currently authenticated account context, if any.
type Session struct {
	CurrentAccountID string
}

// IsAuthenticated reports whether an account is logged in.
func (s Session) IsAuthenticated() bool {
	return s.CurrentAccountID != ""
}
