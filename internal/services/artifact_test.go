package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/authz"
	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
)

func TestArtifactKeySanitizesFilename(t *testing.T) {
	id := uuid.MustParse("0b7c3a1e-1111-4222-8333-944455556666")
	at := time.Unix(0, 42)
	cases := map[string]string{
		"report.pdf":       "report.pdf",
		"my report (1).md": "my_report_1_.md",
		"../../etc/passwd": "passwd",
		"   ":              "artifact",
	}
	for in, want := range cases {
		got := artifactKey(id, in, at)
		if got != "submission_artifact/"+id.String()+"/42-"+want {
			t.Fatalf("%q: want suffix %q got=%q", in, want, got)
		}
	}
}

func TestArtifactRefAllowed(t *testing.T) {
	me := uuid.New()
	other := uuid.New()
	cases := []struct {
		ref  string
		want bool
	}{
		{"https://github.com/me/repo", true},
		{"http://example.com/x", true},
		{"submission_artifact/" + me.String() + "/1-a.zip", true},
		{"submission_artifact/" + other.String() + "/1-a.zip", false},
		{"submission_artifact/" + me.String() + "/../" + other.String() + "/a.zip", false},
		{"ftp://example.com/file", false},
		{"javascript:alert(1)", false},
		{"just text", false},
	}
	for _, tc := range cases {
		if got := artifactRefAllowed(me, tc.ref); got != tc.want {
			t.Fatalf("%q: want=%v got=%v", tc.ref, tc.want, got)
		}
	}
}

func TestArtifactUpload(t *testing.T) {
	bucket := newMemBucket()
	svc := NewArtifactService(testutil.Logger(t), bucket, 16)
	p := authz.Principal{UserID: uuid.New(), Role: types.RoleMentee}

	art, err := svc.Upload(context.Background(), p, "notes.txt", 5, strings.NewReader("hello"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !artifactRefAllowed(p.UserID, art.Ref) {
		t.Fatalf("uploaded ref not accepted for submissions: %q", art.Ref)
	}
	if raw, ok := bucket.object(gcp.BucketCategoryArtifact, art.Ref); !ok || string(raw) != "hello" {
		t.Fatalf("stored object: got=%q ok=%v", raw, ok)
	}

	if _, err := svc.Upload(context.Background(), p, "big.bin", 17, strings.NewReader(strings.Repeat("x", 17))); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("oversize: want=validation got=%v", err)
	}
	if _, err := svc.Upload(context.Background(), p, "empty.txt", 0, strings.NewReader("")); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("empty: want=validation got=%v", err)
	}

	bucket.uploadErr = errors.New("gcs down")
	if _, err := svc.Upload(context.Background(), p, "notes.txt", 5, strings.NewReader("hello")); !apperr.IsCode(err, apperr.CodeUpstream) {
		t.Fatalf("bucket failure: want=upstream got=%v", err)
	}

	unconfigured := NewArtifactService(testutil.Logger(t), nil, 0)
	if _, err := unconfigured.Upload(context.Background(), p, "a.txt", 1, strings.NewReader("a")); !apperr.IsCode(err, apperr.CodeUpstream) {
		t.Fatalf("no bucket: want=upstream got=%v", err)
	}
}
