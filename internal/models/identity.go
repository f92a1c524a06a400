package models

// Identity is the authenticated caller of a request. It is extracted from the bearer
// credential by the auth middleware and passed explicitly into every core operation.
type Identity struct {
	UserID int64 `json:"user_id"`
	Role   Role  `json:"role"`
}
