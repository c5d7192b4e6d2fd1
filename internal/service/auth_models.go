package service

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress *string
}

// AuthResult is the issued credential; ExpiresIn is in seconds and
// doubles as the cookie max-age.
type AuthResult struct {
	Token     string
	ExpiresIn int64
}
