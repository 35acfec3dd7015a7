package models

// TokenPayload is the verified content of an auth token.
type TokenPayload struct {
	UserID string
	Actor  Actor
}
