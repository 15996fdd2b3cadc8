package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"leaseadmin/internal/common"
	"leaseadmin/internal/leaseapi"
	"leaseadmin/internal/mapper"
	"leaseadmin/internal/models"
	"leaseadmin/internal/repositories"
)

type checkingAPI interface {
	GetCheckingRequest(ctx context.Context, id int64) (map[string]any, error)
	UpdateCheckingAttachments(ctx context.Context, id int64, decisions []leaseapi.AttachmentDecision) error
}

// Archiver mirrors approved attachment files into long-term storage.
type Archiver interface {
	ArchiveGroup(ctx context.Context, requestID int64, group models.AttachmentGroup) error
}

// AttachmentService reviews a lease request's attachments group by group.
// A group is every file sharing a name; decisions always cover the whole
// group and the detail is refetched after every successful write.
type AttachmentService interface {
	Detail(ctx context.Context, id int64) (*models.ContractDetail, error)
	ApproveGroup(ctx context.Context, id int64, name string) (*models.ContractDetail, error)
	RejectGroup(ctx context.Context, id int64, name, note string) (*models.ContractDetail, error)
}

type attachmentService struct {
	api     checkingAPI
	lookups LookupService
	archive Archiver
	audit   repositories.AuditLogsRepository
	logger  *zap.Logger
}

func NewAttachmentService(api checkingAPI, lookups LookupService, archive Archiver, audit repositories.AuditLogsRepository, logger *zap.Logger) AttachmentService {
	return &attachmentService{
		api:     api,
		lookups: lookups,
		archive: archive,
		audit:   audit,
		logger:  logger,
	}
}

func (s *attachmentService) Detail(ctx context.Context, id int64) (*models.ContractDetail, error) {
	raw, err := s.api.GetCheckingRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(ctx, raw), nil
}

func (s *attachmentService) buildDetail(ctx context.Context, raw map[string]any) *models.ContractDetail {
	return &models.ContractDetail{
		Tenant: mapper.MapTenant(raw, s.lookups.Lookups(ctx)),
		Groups: GroupAttachments(ExtractAttachments(raw)),
		Raw:    raw,
	}
}

func (s *attachmentService) ApproveGroup(ctx context.Context, id int64, name string) (*models.ContractDetail, error) {
	group, err := s.findGroup(ctx, id, name)
	if err != nil {
		return nil, err
	}

	// the upstream keys attachment updates on the slot name, one decision
	// covers every file in the group
	decisions := []leaseapi.AttachmentDecision{
		{Name: group.Name, Status: models.AttachmentApproved},
	}
	if err := s.api.UpdateCheckingAttachments(ctx, id, decisions); err != nil {
		return nil, err
	}

	// archival is retention work, a failure must not undo the approval
	if s.archive != nil {
		if err := s.archive.ArchiveGroup(ctx, id, *group); err != nil {
			s.logger.Warn("attachment archive failed",
				zap.Int64("request_id", id),
				zap.String("group", name),
				zap.Error(err))
		}
	}

	s.record(ctx, models.ActionAttachmentApprove, id, map[string]any{"name": name, "files": len(group.Items)})
	return s.Detail(ctx, id)
}

func (s *attachmentService) RejectGroup(ctx context.Context, id int64, name, note string) (*models.ContractDetail, error) {
	// the note guard runs before any upstream traffic
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrEmptyNote
	}

	group, err := s.findGroup(ctx, id, name)
	if err != nil {
		return nil, err
	}

	decisions := []leaseapi.AttachmentDecision{
		{Name: group.Name, Status: models.AttachmentRejected, Note: note},
	}
	if err := s.api.UpdateCheckingAttachments(ctx, id, decisions); err != nil {
		return nil, err
	}

	s.record(ctx, models.ActionAttachmentReject, id, map[string]any{"name": name, "note": note})
	return s.Detail(ctx, id)
}

func (s *attachmentService) findGroup(ctx context.Context, id int64, name string) (*models.AttachmentGroup, error) {
	raw, err := s.api.GetCheckingRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, group := range GroupAttachments(ExtractAttachments(raw)) {
		if group.Name == name {
			return &group, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrGroupNotFound, name)
}

func (s *attachmentService) record(ctx context.Context, action string, id int64, detail map[string]any) {
	entry := &models.AuditLog{
		Actor:    common.Actor(ctx),
		Action:   action,
		Entity:   "lease_request",
		EntityID: strconv.FormatInt(id, 10),
		Detail:   detail,
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Error("audit write failed", zap.String("action", action), zap.Error(err))
	}
}

// attachmentKeys are the field names attachments show up under, in the
// order the upstream has used them over time (the misspelled one is real).
var attachmentKeys = []string{"attachements", "attachments", "lease_request_attachments"}

// ExtractAttachments pulls the attachment list out of a checking record,
// whichever of its historical shapes it arrives in.
func ExtractAttachments(raw map[string]any) []models.Attachment {
	for _, key := range attachmentKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var list []any
		switch val := v.(type) {
		case []any:
			list = val
		case map[string]any:
			list, _ = val["data"].([]any)
		}
		if len(list) == 0 {
			continue
		}
		out := make([]models.Attachment, 0, len(list))
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, parseAttachment(m))
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func parseAttachment(m map[string]any) models.Attachment {
	a := models.Attachment{
		Name:   firstStringField(m, "name", "title", "type"),
		Status: firstStringField(m, "status"),
		Note:   firstStringField(m, "note", "reject_note"),
		URLs:   extractURLs(m),
	}
	if id, ok := recordID(m); ok {
		a.ID = id
	}
	if a.Status == "" {
		a.Status = models.AttachmentPending
	}
	return a
}

// extractURLs collects file locations across the urls array, a single url
// string and the file field (string or array).
func extractURLs(m map[string]any) []string {
	var out []string
	appendURL := func(v any) {
		switch u := v.(type) {
		case string:
			if u = strings.TrimSpace(u); u != "" {
				out = append(out, u)
			}
		case map[string]any:
			if s := firstStringField(u, "url", "path", "file"); s != "" {
				out = append(out, s)
			}
		}
	}

	if list, ok := m["urls"].([]any); ok {
		for _, v := range list {
			appendURL(v)
		}
	}
	appendURL(m["url"])
	if list, ok := m["file"].([]any); ok {
		for _, v := range list {
			appendURL(v)
		}
	} else {
		appendURL(m["file"])
	}
	return out
}

// GroupAttachments buckets attachments by name, preserving first-seen
// order, and derives each group's review status.
func GroupAttachments(attachments []models.Attachment) []models.AttachmentGroup {
	var order []string
	byName := map[string]*models.AttachmentGroup{}
	for _, a := range attachments {
		name := a.Name
		if name == "" {
			name = "unnamed"
		}
		group, ok := byName[name]
		if !ok {
			group = &models.AttachmentGroup{Name: name}
			byName[name] = group
			order = append(order, name)
		}
		group.Items = append(group.Items, a)
	}

	out := make([]models.AttachmentGroup, 0, len(order))
	for _, name := range order {
		group := byName[name]
		group.Derive()
		out = append(out, *group)
	}
	return out
}
