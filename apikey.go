package fedapay

import "time"

var apiKeyResource = Resource{
	ObjectName: "api_key",
	Path:       "/api_keys",
	Operations: OpCreate | OpList | OpUpdate | OpDelete,
}

// APIKey is a public/secret key pair of an account.
type APIKey struct {
	ID        ID        `json:"id"`
	AccountID ID        `json:"account_id"`
	PublicKey string    `json:"public_key"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
