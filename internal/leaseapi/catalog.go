package leaseapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProductTypes fetches the product type catalog.
func (c *Client) ProductTypes(ctx context.Context) ([]map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, "/product-types", nil, nil)
	if err != nil {
		return nil, err
	}
	return records(v), nil
}

// ServiceCategories fetches the service category catalog.
func (c *Client) ServiceCategories(ctx context.Context) ([]map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, "/service-categories", nil, nil)
	if err != nil {
		return nil, err
	}
	return records(v), nil
}

// Blocks fetches the market's block list.
func (c *Client) Blocks(ctx context.Context) ([]map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, "/properties/blocks", nil, nil)
	if err != nil {
		return nil, err
	}
	return records(v), nil
}

// PropertyQuery narrows a property listing. Zero values are omitted from
// the query string entirely; ordering defaults to newest first.
type PropertyQuery struct {
	Page           int
	PerPage        int
	OrderBy        string
	Order          string
	Search         string
	TypeID         int64
	ProductTypeID  int64
	Relationship   string
	RelationshipID int64
}

func (q PropertyQuery) values() url.Values {
	query := url.Values{}
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.PerPage
	if perPage < 1 {
		perPage = 10
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(perPage))

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	order := q.Order
	if order == "" {
		order = "desc"
	}
	query.Set("orderby", orderBy)
	query.Set("order", order)

	if q.Search != "" {
		query.Set("q", q.Search)
	}
	if q.TypeID > 0 {
		query.Set("type_id", strconv.FormatInt(q.TypeID, 10))
	}
	if q.ProductTypeID > 0 {
		query.Set("product_type_id", strconv.FormatInt(q.ProductTypeID, 10))
	}
	if q.Relationship != "" {
		query.Set("relationship", q.Relationship)
		if q.RelationshipID > 0 {
			query.Set("relationship_id", strconv.FormatInt(q.RelationshipID, 10))
		}
	}
	return query
}

// Properties fetches one page of properties.
func (c *Client) Properties(ctx context.Context, q PropertyQuery) (*Page, error) {
	v, err := c.do(ctx, http.MethodGet, "/properties", q.values(), nil)
	if err != nil {
		return nil, err
	}
	pageNum := q.Page
	if pageNum < 1 {
		pageNum = 1
	}
	return page(v, pageNum, q.PerPage), nil
}

// Property fetches one property by id.
func (c *Client) Property(ctx context.Context, id int64) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// CreateProperty registers a new property.
func (c *Client) CreateProperty(ctx context.Context, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPost, "/properties", nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// UpdateProperty updates an existing property.
func (c *Client) UpdateProperty(ctx context.Context, id int64, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/properties/%d", id), nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// UpdatePropertyRate sets a property's standing rate.
func (c *Client) UpdatePropertyRate(ctx context.Context, id int64, rate float64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/properties/%d/rate", id), nil, map[string]any{"rate": rate})
	return err
}

// PropertyAnnualRates fetches a property's annual rate history.
func (c *Client) PropertyAnnualRates(ctx context.Context, id int64) ([]map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d/annual-rates", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return records(v), nil
}

// AnnualRates fetches one page of annual rates across all properties.
func (c *Client) AnnualRates(ctx context.Context, pageNum, perPage int) (*Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("per_page", strconv.Itoa(perPage))

	v, err := c.do(ctx, http.MethodGet, "/annual-rates", query, nil)
	if err != nil {
		return nil, err
	}
	return page(v, pageNum, perPage), nil
}

// CreateAnnualRate submits a new annual rate for approval.
func (c *Client) CreateAnnualRate(ctx context.Context, payload map[string]any) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodPost, "/annual-rates", nil, payload)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// ApproveAnnualRate approves a pending annual rate.
func (c *Client) ApproveAnnualRate(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/annual-rates/%d/approve", id), nil, nil)
	return err
}

// RejectAnnualRate rejects a pending annual rate. Older upstream builds do
// not ship this route and answer 404; callers map that to a typed
// not-supported error.
func (c *Client) RejectAnnualRate(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/annual-rates/%d/reject", id), nil, nil)
	return err
}
