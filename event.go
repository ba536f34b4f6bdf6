package fedapay

import (
	"encoding/json"
	"time"
)

var eventResource = Resource{
	ObjectName: "event",
	Path:       "/events",
	Operations: OpRetrieve | OpList,
}

// Event is a notification about a change to an object, as listed by the
// events endpoint or delivered to a webhook.
type Event struct {
	ID        ID              `json:"id"`
	Object    string          `json:"object"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	ObjectID  ID              `json:"object_id"`
	AccountID ID              `json:"account_id"`
	Entity    json.RawMessage `json:"entity"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// DecodeEntity unmarshals the object the event is about into v.
func (e *Event) DecodeEntity(v any) error {
	return json.Unmarshal(e.Entity, v)
}
