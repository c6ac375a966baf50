package identities

// Resolution is the outcome of resolving an external identity.
type Resolution struct {
	AccountID string `json:"accountId"`
	IsNew     bool   `json:"isNew"`
}
