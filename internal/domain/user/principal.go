package user

// Principal is the identity carried by a verified access token. Role is
// empty when the token does not assert one.
type Principal struct {
	UserID   string
	Username string
	Role     Role
}
