package services

import (
	"context"

	"leaseadmin/internal/leaseapi"
)

type directoryAPI interface {
	Users(ctx context.Context, page, perPage int) (*leaseapi.Page, error)
	User(ctx context.Context, id int64) (map[string]any, error)
	CreateUser(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateUser(ctx context.Context, id int64, payload map[string]any) (map[string]any, error)
	DeleteUser(ctx context.Context, id int64) error
	Roles(ctx context.Context) ([]map[string]any, error)
	CreateRole(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateRole(ctx context.Context, id int64, payload map[string]any) (map[string]any, error)
	Permissions(ctx context.Context) ([]map[string]any, error)
}

// DirectoryService proxies the upstream's user, role and permission
// management. The upstream stays the source of truth; nothing is cached.
type DirectoryService interface {
	Users(ctx context.Context, page, perPage int) (*leaseapi.Page, error)
	User(ctx context.Context, id int64) (map[string]any, error)
	CreateUser(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateUser(ctx context.Context, id int64, payload map[string]any) (map[string]any, error)
	DeleteUser(ctx context.Context, id int64) error
	Roles(ctx context.Context) ([]map[string]any, error)
	CreateRole(ctx context.Context, payload map[string]any) (map[string]any, error)
	UpdateRole(ctx context.Context, id int64, payload map[string]any) (map[string]any, error)
	Permissions(ctx context.Context) ([]map[string]any, error)
}

type directoryService struct {
	api directoryAPI
}

func NewDirectoryService(api directoryAPI) DirectoryService {
	return &directoryService{api: api}
}

func (s *directoryService) Users(ctx context.Context, page, perPage int) (*leaseapi.Page, error) {
	return s.api.Users(ctx, page, perPage)
}

func (s *directoryService) User(ctx context.Context, id int64) (map[string]any, error) {
	return s.api.User(ctx, id)
}

func (s *directoryService) CreateUser(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return s.api.CreateUser(ctx, payload)
}

func (s *directoryService) UpdateUser(ctx context.Context, id int64, payload map[string]any) (map[string]any, error) {
	return s.api.UpdateUser(ctx, id, payload)
}

func (s *directoryService) DeleteUser(ctx context.Context, id int64) error {
	return s.api.DeleteUser(ctx, id)
}

func (s *directoryService) Roles(ctx context.Context) ([]map[string]any, error) {
	return s.api.Roles(ctx)
}

func (s *directoryService) CreateRole(ctx context.Context, payload map[string]any) (map[string]any, error) {
	return s.api.CreateRole(ctx, payload)
}

func (s *directoryService) UpdateRole(ctx context.Context, id int64, payload map[string]any) (map[string]any, error) {
	return s.api.UpdateRole(ctx, id, payload)
}

func (s *directoryService) Permissions(ctx context.Context) ([]map[string]any, error) {
	return s.api.Permissions(ctx)
}
