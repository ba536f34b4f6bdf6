package fedapay

import "time"

var accountResource = Resource{
	ObjectName: "account",
	Path:       "/accounts",
	Operations: OpCreate | OpList | OpUpdate | OpDelete,
}

// Account is a merchant account. Requests made on behalf of an account carry
// its id in the Fedapay-Account header, see WithAccountID.
type Account struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	Country   string    `json:"country"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
