package domain

// Credential pairs the opaque bearer token with the identity it was issued
// for. The two always travel together: the credential store persists and
// clears them as a single unit, so observers never see a token without a
// user or a user without a token.
type Credential struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
