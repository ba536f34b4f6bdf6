package fedapay

import "time"

var customerResource = Resource{
	ObjectName: "customer",
	Path:       "/customers",
	Operations: OpAll,
}

// Customer is a payer.
type Customer struct {
	ID            ID        `json:"id"`
	Firstname     string    `json:"firstname"`
	Lastname      string    `json:"lastname"`
	Email         string    `json:"email"`
	AccountID     ID        `json:"account_id"`
	PhoneNumberID ID        `json:"phone_number_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
