package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

const (
	artifactPrefix         = "submission_artifact/"
	DefaultMaxArtifactSize = 25 << 20
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type Artifact struct {
	Ref         string `json:"artifact_ref"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type ArtifactService interface {
	Upload(ctx context.Context, p authz.Principal, filename string, size int64, r io.Reader) (*Artifact, error)
}

type artifactService struct {
	log     *logger.Logger
	bucket  gcp.BucketService
	maxSize int64
	now     func() time.Time
}

func NewArtifactService(log *logger.Logger, bucket gcp.BucketService, maxSize int64) ArtifactService {
	if maxSize <= 0 {
		maxSize = DefaultMaxArtifactSize
	}
	return &artifactService{
		log:     log.With("service", "ArtifactService"),
		bucket:  bucket,
		maxSize: maxSize,
		now:     time.Now,
	}
}

func (s *artifactService) Upload(ctx context.Context, p authz.Principal, filename string, size int64, r io.Reader) (*Artifact, error) {
	const op = "artifact.upload"
	if err := authz.RequireAuth(p, op); err != nil {
		return nil, err
	}
	if s.bucket == nil {
		return nil, apperr.New(apperr.CodeUpstream, op, "artifact storage not configured", nil)
	}
	if size <= 0 {
		return nil, apperr.Validation(op, "file is empty")
	}
	if size > s.maxSize {
		return nil, apperr.Validation(op, fmt.Sprintf("file exceeds %d bytes", s.maxSize))
	}

	key := artifactKey(p.UserID, filename, s.now())
	if err := s.bucket.UploadFile(ctx, gcp.BucketCategoryArtifact, key, io.LimitReader(r, s.maxSize)); err != nil {
		return nil, apperr.New(apperr.CodeUpstream, op, "artifact upload failed", err)
	}
	s.log.Info("Artifact uploaded", "user_id", p.UserID, "key", key, "size", size)
	return &Artifact{
		Ref:         key,
		URL:         s.bucket.GetPublicURL(gcp.BucketCategoryArtifact, key),
		ContentType: gcp.ContentTypeForKey(key),
		Size:        size,
	}, nil
}

func artifactKey(userID uuid.UUID, filename string, at time.Time) string {
	name := unsafeFileChars.ReplaceAllString(path.Base(strings.TrimSpace(filename)), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "artifact"
	}
	return fmt.Sprintf("%s%s/%d-%s", artifactPrefix, userID.String(), at.UnixNano(), name)
}

// artifactRefAllowed accepts the caller's own uploaded keys and external http(s) links.
func artifactRefAllowed(userID uuid.UUID, ref string) bool {
	if strings.HasPrefix(ref, artifactPrefix) {
		return strings.HasPrefix(ref, artifactPrefix+userID.String()+"/") && !strings.Contains(ref, "..")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
