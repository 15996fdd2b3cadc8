package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog records one admin mutation issued through this gateway.
type AuditLog struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Actor     string         `json:"actor" db:"actor"`
	Action    string         `json:"action" db:"action"`
	Entity    string         `json:"entity" db:"entity"`
	EntityID  string         `json:"entity_id" db:"entity_id"`
	Detail    map[string]any `json:"detail" db:"detail"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// Audit action constants. under_review records get their own actions so the
// trail distinguishes them from plain checking decisions.
const (
	ActionApprove            = "lease_request.approve"
	ActionReject             = "lease_request.reject"
	ActionSetStatus          = "lease_request.set_status"
	ActionReviewSetStatus    = "lease_request.review_set_status"
	ActionAttachmentApprove  = "attachment.approve"
	ActionAttachmentReject   = "attachment.reject"
	ActionPropertyCreate     = "property.create"
	ActionPropertyUpdate     = "property.update"
	ActionPropertyRateUpdate = "property.rate_update"
	ActionAnnualRateCreate   = "annual_rate.create"
	ActionAnnualRateApprove  = "annual_rate.approve"
	ActionAnnualRateReject   = "annual_rate.reject"
)

// AuditLogFilters narrows List queries.
type AuditLogFilters struct {
	Actor    *string    `json:"actor"`
	Action   *string    `json:"action"`
	Entity   *string    `json:"entity"`
	EntityID *string    `json:"entity_id"`
	Since    *time.Time `json:"since"`
	Until    *time.Time `json:"until"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}
