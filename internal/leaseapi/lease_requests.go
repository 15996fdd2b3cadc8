package leaseapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListLeaseRequests fetches one page of lease requests together with the
// upstream's status label map.
func (c *Client) ListLeaseRequests(ctx context.Context, pageNum, perPage int) (*Page, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(pageNum))
	query.Set("per_page", strconv.Itoa(perPage))

	v, err := c.do(ctx, http.MethodGet, "/lease-requests", query, nil)
	if err != nil {
		return nil, err
	}
	return page(v, pageNum, perPage), nil
}

// GetLeaseRequest fetches one lease request by id.
func (c *Client) GetLeaseRequest(ctx context.Context, id int64) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lease-requests/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// GetCheckingRequest fetches the checking view of a request, including its
// attachments.
func (c *Client) GetCheckingRequest(ctx context.Context, id int64) (map[string]any, error) {
	v, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/lease-requests/checking/requests/%d", id), nil, nil)
	if err != nil {
		return nil, err
	}
	return record(v), nil
}

// AttachmentDecision is one reviewed attachment slot heading back upstream.
// The upstream keys attachment updates on the slot name, never on file ids.
type AttachmentDecision struct {
	Name   string
	Status string
	Note   string
}

func (d AttachmentDecision) body() map[string]any {
	m := map[string]any{"name": d.Name, "status": d.Status}
	// the upstream rejects unexpected fields, the note rides along only
	// on rejections
	if d.Status == "rejected" && d.Note != "" {
		m["note"] = d.Note
	}
	return m
}

// UpdateCheckingAttachments pushes reviewed attachment statuses upstream. A
// single decision goes as a bare object, several as an attachments array;
// the upstream accepts only these two shapes.
func (c *Client) UpdateCheckingAttachments(ctx context.Context, id int64, decisions []AttachmentDecision) error {
	if len(decisions) == 0 {
		return nil
	}

	var body any
	if len(decisions) == 1 {
		body = decisions[0].body()
	} else {
		items := make([]map[string]any, len(decisions))
		for i, d := range decisions {
			items[i] = d.body()
		}
		body = map[string]any{"attachments": items}
	}

	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/lease-requests/checking/requests/%d", id), nil, body)
	return err
}

// ApproveLeaseRequest approves a request outright.
func (c *Client) ApproveLeaseRequest(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/lease-requests/%d/approve", id), nil, nil)
	return err
}

// RejectLeaseRequest rejects a request outright.
func (c *Client) RejectLeaseRequest(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/lease-requests/%d/reject", id), nil, nil)
	return err
}

// SetLeaseRequestStatus moves a request to an explicit status. The upstream
// overloads the approve route with a status body for this.
func (c *Client) SetLeaseRequestStatus(ctx context.Context, id int64, target string) error {
	body := map[string]any{"status": target}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/lease-requests/%d/approve", id), nil, body)
	return err
}
