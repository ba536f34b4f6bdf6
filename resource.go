package fedapay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fedapay/fedapay-go/internal/apierrors"
)

// ID identifies an API object. The API sends numeric ids for most objects;
// both numbers and strings decode into an ID.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Operation is a set of operations a resource supports.
type Operation uint8

// Resource operations.
const (
	OpCreate Operation = 1 << iota
	OpRetrieve
	OpList
	OpSearch
	OpUpdate
	OpDelete

	OpAll = OpCreate | OpRetrieve | OpList | OpSearch | OpUpdate | OpDelete
)

var operationNames = []struct {
	op   Operation
	name string
}{
	{OpCreate, "create"},
	{OpRetrieve, "retrieve"},
	{OpList, "list"},
	{OpSearch, "search"},
	{OpUpdate, "update"},
	{OpDelete, "delete"},
}

func (o Operation) String() string {
	var names []string
	for _, n := range operationNames {
		if o&n.op != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// Resource describes an API object type.
type Resource struct {
	// ObjectName is the singular name, e.g. "customer". Responses carry a
	// single object under "<version>/<ObjectName>".
	ObjectName string
	// Path is the collection path, e.g. "/customers". Responses carry lists
	// under "<version>/<Path without slash>".
	Path string
	// Operations lists what the API supports for this resource.
	Operations Operation
}

// Allows reports whether op is supported.
func (r Resource) Allows(op Operation) bool {
	return r.Operations&op == op
}

// ObjectKey is the response field holding one object.
func (r Resource) ObjectKey(version string) string {
	return version + "/" + r.ObjectName
}

// ListKey is the response field holding a list of objects.
func (r Resource) ListKey(version string) string {
	return version + "/" + strings.TrimPrefix(r.Path, "/")
}

// InstancePath returns the path of the object with the given id.
func (r Resource) InstancePath(id ID) (string, error) {
	if id == "" {
		return "", apierrors.NewInvalidRequestError(
			fmt.Sprintf("Could not determine which URL to request: %s instance has invalid ID: %q", r.ObjectName, id),
			"id")
	}
	return r.Path + "/" + url.PathEscape(string(id)), nil
}

// ListMeta is the pagination block of list responses.
type ListMeta struct {
	CurrentPage int  `json:"current_page"`
	NextPage    *int `json:"next_page"`
	PrevPage    *int `json:"prev_page"`
	PerPage     int  `json:"per_page"`
	TotalPages  int  `json:"total_pages"`
	TotalCount  int  `json:"total_count"`
}

// List is one page of objects.
type List[T any] struct {
	Data []T
	Meta ListMeta
	// Filters are the parameters the page was requested with.
	Filters *Params
}

// Service performs the standard operations of one resource.
type Service[T any] struct {
	client   *Client
	resource Resource
}

func newService[T any](c *Client, r Resource) *Service[T] {
	return &Service[T]{client: c, resource: r}
}

// Resource returns the descriptor of the service's resource.
func (s *Service[T]) Resource() Resource {
	return s.resource
}

func (s *Service[T]) check(op Operation) error {
	if s.resource.Allows(op) {
		return nil
	}
	return fmt.Errorf("%w: %s on %s", ErrOperationNotAllowed, op, s.resource.ObjectName)
}

// Create creates an object.
func (s *Service[T]) Create(ctx context.Context, params *Params, opts ...RequestOption) (*T, error) {
	if err := s.check(OpCreate); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, http.MethodPost, s.resource.Path, params, opts...)
	if err != nil {
		return nil, err
	}
	return s.decodeObject(resp)
}

// Retrieve fetches the object with the given id.
func (s *Service[T]) Retrieve(ctx context.Context, id ID, opts ...RequestOption) (*T, error) {
	if err := s.check(OpRetrieve); err != nil {
		return nil, err
	}
	path, err := s.resource.InstancePath(id)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, http.MethodGet, path, nil, opts...)
	if err != nil {
		return nil, err
	}
	return s.decodeObject(resp)
}

// List fetches one page of objects.
func (s *Service[T]) List(ctx context.Context, params *Params, opts ...RequestOption) (*List[T], error) {
	if err := s.check(OpList); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, http.MethodGet, s.resource.Path, params, opts...)
	if err != nil {
		return nil, err
	}
	return s.decodeList(resp, params)
}

// Search fetches objects matching filters. Paging cursors are not kept in
// the returned filters.
func (s *Service[T]) Search(ctx context.Context, filters *Params, opts ...RequestOption) (*List[T], error) {
	if err := s.check(OpSearch); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, http.MethodGet, s.resource.Path+"/search", filters, opts...)
	if err != nil {
		return nil, err
	}
	kept := filters.Clone()
	kept.Del("ending_before")
	kept.Del("starting_after")
	return s.decodeList(resp, kept)
}

// Update modifies the object with the given id.
func (s *Service[T]) Update(ctx context.Context, id ID, params *Params, opts ...RequestOption) (*T, error) {
	if err := s.check(OpUpdate); err != nil {
		return nil, err
	}
	path, err := s.resource.InstancePath(id)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(ctx, http.MethodPut, path, params, opts...)
	if err != nil {
		return nil, err
	}
	return s.decodeObject(resp)
}

// Delete removes the object with the given id.
func (s *Service[T]) Delete(ctx context.Context, id ID, opts ...RequestOption) error {
	if err := s.check(OpDelete); err != nil {
		return err
	}
	path, err := s.resource.InstancePath(id)
	if err != nil {
		return err
	}
	_, err = s.client.Do(ctx, http.MethodDelete, path, nil, opts...)
	return err
}

func (s *Service[T]) decodeObject(resp *Response) (*T, error) {
	v := new(T)
	if err := decodeField(resp, s.resource.ObjectKey(s.client.apiClient.APIVersion()), v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service[T]) decodeList(resp *Response, filters *Params) (*List[T], error) {
	list := &List[T]{Filters: filters}
	if err := decodeField(resp, s.resource.ListKey(s.client.apiClient.APIVersion()), &list.Data); err != nil {
		return nil, err
	}
	if _, ok := resp.Data["meta"]; ok {
		if err := decodeField(resp, "meta", &list.Meta); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// decodeField decodes a top-level response field, reporting a missing or
// malformed field as an API error.
func decodeField(resp *Response, key string, v any) error {
	if err := resp.Decode(key, v); err != nil {
		return &apierrors.Error{
			Kind:        apierrors.KindAPI,
			Message:     fmt.Sprintf("Invalid response object from API: %v", err),
			HTTPStatus:  resp.StatusCode,
			HTTPBody:    string(resp.Body),
			HTTPHeaders: resp.Header,
			JSONBody:    resp.Data,
			RequestID:   resp.RequestID,
			Err:         err,
		}
	}
	return nil
}
