package model

// AccessToken is the object embedded in the JWT access token. Issuing tokens
// is the job of an external auth service; this backend only verifies them.
type AccessToken struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
