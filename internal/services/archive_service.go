package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"leaseadmin/internal/models"
)

// ArchiveService mirrors approved attachment files into object storage so
// the contract bundle survives upstream cleanups. Object keys follow
// requests/{request id}/{group name}/{attachment id}/{file basename}.
type ArchiveService struct {
	client *minio.Client
	bucket string
	http   *http.Client
	logger *zap.Logger
}

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func NewArchiveService(cfg ArchiveConfig, logger *zap.Logger) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		http:   &http.Client{},
		logger: logger,
	}, nil
}

// EnsureBucket creates the archive bucket when it is missing.
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("created archive bucket", zap.String("bucket", s.bucket))
	return nil
}

// ArchiveGroup downloads every file of the group and stores it. Files that
// cannot be fetched are skipped with a warning; the first storage error is
// returned.
func (s *ArchiveService) ArchiveGroup(ctx context.Context, requestID int64, group models.AttachmentGroup) error {
	for _, item := range group.Items {
		for _, fileURL := range item.URLs {
			if err := s.archiveFile(ctx, requestID, group.Name, item.ID, fileURL); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ArchiveService) archiveFile(ctx context.Context, requestID int64, groupName string, attachmentID int64, fileURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		s.logger.Warn("skipping unfetchable attachment", zap.String("url", fileURL), zap.Error(err))
		return nil
	}
	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.Warn("skipping unfetchable attachment", zap.String("url", fileURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("skipping unfetchable attachment",
			zap.String("url", fileURL),
			zap.Int("status", resp.StatusCode))
		return nil
	}

	key := objectKey(requestID, groupName, attachmentID, fileURL)
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, resp.Body, resp.ContentLength, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// objectKey keeps the attachment id as a path segment so files sharing a
// basename within one group cannot overwrite each other.
func objectKey(requestID int64, groupName string, attachmentID int64, fileURL string) string {
	base := "file"
	if u, err := url.Parse(fileURL); err == nil {
		if b := path.Base(u.Path); b != "" && b != "/" && b != "." {
			base = b
		}
	}
	group := strings.ReplaceAll(strings.TrimSpace(groupName), "/", "-")
	if group == "" {
		group = "unnamed"
	}
	return fmt.Sprintf("requests/%d/%s/%d/%s", requestID, group, attachmentID, base)
}
