package models

// Attachment review states used by the checking flow.
const (
	AttachmentPending  = "pending"
	AttachmentApproved = "approved"
	AttachmentRejected = "rejected"
)

// Attachment is a single uploaded file on a lease request.
type Attachment struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Status string   `json:"status"`
	Note   string   `json:"note,omitempty"`
	URLs   []string `json:"urls"`
}

// AttachmentGroup is the unit reviewers act on: all files sharing a name.
// Approvals and rejections always target the whole group.
type AttachmentGroup struct {
	Name   string       `json:"name"`
	Status string       `json:"status"`
	Note   string       `json:"note,omitempty"`
	Items  []Attachment `json:"items"`
}

// Derive computes the group status from its items: rejected wins over
// everything, approved only when unanimous, otherwise pending. The first
// rejection note becomes the group note.
func (g *AttachmentGroup) Derive() {
	g.Status = AttachmentApproved
	g.Note = ""
	if len(g.Items) == 0 {
		g.Status = AttachmentPending
		return
	}
	for _, a := range g.Items {
		if a.Status == AttachmentRejected {
			g.Status = AttachmentRejected
			g.Note = a.Note
			return
		}
		if a.Status != AttachmentApproved {
			g.Status = AttachmentPending
		}
	}
}

// ContractDetail is the checking view of one lease request: the mapped
// tenant plus its attachment groups.
type ContractDetail struct {
	Tenant Tenant            `json:"tenant"`
	Groups []AttachmentGroup `json:"groups"`
	Raw    map[string]any    `json:"raw,omitempty"`
}
