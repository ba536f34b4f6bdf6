package fedapay

import (
	"context"
	"net/http"
	"time"
)

var pageResource = Resource{
	ObjectName: "page",
	Path:       "/pages",
	Operations: OpCreate | OpList | OpUpdate | OpDelete,
}

// Page is a hosted payment page.
type Page struct {
	ID          ID        `json:"id"`
	Reference   string    `json:"reference"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PageService manages payment pages.
type PageService struct {
	*Service[Page]
}

// Verify looks up a payment page by the attributes in params, typically its
// reference.
func (s *PageService) Verify(ctx context.Context, params *Params, opts ...RequestOption) (*Response, error) {
	return s.client.Do(ctx, http.MethodGet, s.resource.Path+"/verify", params, opts...)
}
