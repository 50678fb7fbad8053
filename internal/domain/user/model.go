package user

// Principal is the authenticated caller resolved by an identity provider.
type Principal struct {
	UserID int64
	Email  string
}

func (p Principal) Authenticated() bool {
	return p.UserID > 0
}
