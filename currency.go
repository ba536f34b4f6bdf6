package fedapay

import "time"

var currencyResource = Resource{
	ObjectName: "currency",
	Path:       "/currencies",
	Operations: OpRetrieve | OpList,
}

// Currency is a currency accepted by FedaPay.
type Currency struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	ISO       string    `json:"iso"`
	Code      int       `json:"code"`
	Prefix    string    `json:"prefix"`
	Suffix    string    `json:"suffix"`
	Div       int       `json:"div"`
	Default   bool      `json:"default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
