package models

import (
	"leaseadmin/internal/status"
)

// Tenant is the dashboard view of a lease request. Every display field is
// already resolved: the mapper fills gaps with "-" so the client never
// renders an empty cell.
type Tenant struct {
	ID             int64         `json:"id"`
	Status         status.Status `json:"status"`
	CustomerName   string        `json:"customerName"`
	Phone          string        `json:"phone"`
	Email          string        `json:"email"`
	Category       string        `json:"category"`
	BusinessType   string        `json:"businessType"`
	Description    string        `json:"description"`
	IsNewTenant    bool          `json:"isNewTenant"`
	IsRenewal      bool          `json:"isRenewal"`
	PropertyID     *int64        `json:"propertyId"`
	PropertyNumber *string       `json:"propertyNumber"`
	PropertyName   *string       `json:"propertyName"`
	CreatedAt      string        `json:"createdAt,omitempty"`
}

func (t Tenant) WorkflowStatus() status.Status { return t.Status }

// TenantPage is one listing page after classification.
type TenantPage struct {
	Tenants       []Tenant              `json:"tenants"`
	Counts        map[status.Status]int `json:"counts"`
	CurrentPage   int                   `json:"currentPage"`
	TotalPages    int                   `json:"totalPages"`
	Total         int                   `json:"total"`
	StatusOptions map[string]string     `json:"statusOptions,omitempty"`
}
