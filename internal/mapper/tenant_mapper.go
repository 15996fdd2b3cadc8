package mapper

import (
	"fmt"
	"strconv"
	"strings"

	"leaseadmin/internal/models"
	"leaseadmin/internal/status"
)

// Placeholder fills any display field no fallback could resolve.
const Placeholder = "-"

// PropertyRef is the cached identity of a leasable property.
type PropertyRef struct {
	Name   string
	Number string
}

// Lookups are the id->name tables the mapper resolves foreign keys with.
// Any table may be nil; resolution then falls through to the next source.
type Lookups struct {
	ServiceCategories map[int64]string
	ProductTypes      map[int64]string
	Properties        map[int64]PropertyRef
}

// MapTenant converts one raw upstream lease-request record into the
// dashboard view model. It is total: any record shape yields a usable
// Tenant, missing fields become the placeholder.
func MapTenant(raw map[string]any, lk Lookups) models.Tenant {
	t := models.Tenant{
		ID:           intAt(raw, "id"),
		Status:       status.Status(stringAt(raw, "status")),
		CustomerName: firstString(raw, "contact_name", "customer_name", "customerName", "name"),
		Phone:        firstString(raw, "contact_phone", "phone", "contact"),
		Email:        firstString(raw, "contact_email", "email"),
		Description:  firstString(raw, "notes", "description", "comment"),
		Category:     categoryFor(raw, lk),
		BusinessType: businessTypeFor(raw, lk),
		CreatedAt:    stringAt(raw, "created_at"),
	}

	if id, ok := intValue(raw["property_id"]); ok {
		t.PropertyID = &id
		if ref, ok := lk.Properties[id]; ok {
			if ref.Name != "" {
				t.PropertyName = &ref.Name
			}
			if ref.Number != "" {
				t.PropertyNumber = &ref.Number
			}
		}
	}
	if t.PropertyName == nil {
		if name := embeddedName(raw["property"], "name", "number", "title"); name != "" {
			t.PropertyName = &name
		}
	}
	if t.PropertyNumber == nil {
		if number := stringAt(raw, "property_number"); number != "" {
			t.PropertyNumber = &number
		}
	}

	// a request without a chosen property is a brand-new tenant
	t.IsNewTenant = t.PropertyID == nil
	t.IsRenewal = !t.IsNewTenant

	return t
}

// MapTenants maps a whole page of records.
func MapTenants(raws []map[string]any, lk Lookups) []models.Tenant {
	out := make([]models.Tenant, 0, len(raws))
	for _, raw := range raws {
		out = append(out, MapTenant(raw, lk))
	}
	return out
}

func categoryFor(raw map[string]any, lk Lookups) string {
	if v := stringAt(raw, "category_name"); v != "" {
		return v
	}
	if v := embeddedName(raw["service_category"], "name", "title"); v != "" {
		return v
	}
	if id, ok := intValue(raw["service_category_id"]); ok {
		if name, ok := lk.ServiceCategories[id]; ok && name != "" {
			return name
		}
	}
	if id, ok := intValue(raw["category_id"]); ok {
		if name, ok := lk.ServiceCategories[id]; ok && name != "" {
			return name
		}
	}
	if v := embeddedName(raw["category"], "name", "title"); v != "" {
		return v
	}
	if id, ok := intValue(raw["service_category_id"]); ok {
		return fmt.Sprintf("Category #%d", id)
	}
	if id, ok := intValue(raw["category_id"]); ok {
		return fmt.Sprintf("Category #%d", id)
	}
	return Placeholder
}

func businessTypeFor(raw map[string]any, lk Lookups) string {
	if v := stringAt(raw, "product_type_name"); v != "" {
		return v
	}
	if id, ok := intValue(raw["product_type_id"]); ok {
		if name, ok := lk.ProductTypes[id]; ok && name != "" {
			return name
		}
	}
	if v := embeddedName(raw["product_type"], "name", "title"); v != "" {
		return v
	}
	if v := firstString(raw, "business_type", "businessType"); v != Placeholder {
		return v
	}
	if id, ok := intValue(raw["product_type_id"]); ok {
		return fmt.Sprintf("Type #%d", id)
	}
	return Placeholder
}

// firstString returns the first key holding a non-empty string, else the
// placeholder.
func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return Placeholder
}

func stringAt(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return strings.TrimSpace(s)
}

func intAt(raw map[string]any, key string) int64 {
	n, _ := intValue(raw[key])
	return n
}

// intValue coerces the shapes upstream ids arrive in. JSON decoding gives
// float64; some endpoints serialize ids as strings.
func intValue(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}

// embeddedName resolves a value that may be a plain string or an object
// carrying one of the given name keys.
func embeddedName(v any, keys ...string) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		for _, k := range keys {
			if s, ok := val[k].(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}
