package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/mentorship-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
)

func newTestAvatarService(t *testing.T, bucket gcp.BucketService) AvatarService {
	t.Helper()
	svc, err := NewAvatarService(testutil.Logger(t), bucket, AvatarConfig{})
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	return svc
}

func TestGenerateUserAvatarPNG(t *testing.T) {
	svc := newTestAvatarService(t, nil)
	u := &types.User{ID: uuid.New(), FirstName: "ada", LastName: "lovelace"}
	buf, err := svc.GenerateUserAvatar(u)
	if err != nil {
		t.Fatalf("GenerateUserAvatar: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != avatarSize || b.Dy() != avatarSize {
		t.Fatalf("size: want=%d got=%dx%d", avatarSize, b.Dx(), b.Dy())
	}
	if normalizeHex(u.AvatarColor) == "" {
		t.Fatalf("avatar color not assigned: %q", u.AvatarColor)
	}
}

func TestUploadAvatarReplacesPreviousObject(t *testing.T) {
	bucket := newMemBucket()
	svc := newTestAvatarService(t, bucket)
	u := &types.User{ID: uuid.New(), FirstName: "Ada", LastName: "L", AvatarBucketKey: "user_avatar/old.png"}

	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			src.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var raw bytes.Buffer
	if err := png.Encode(&raw, src); err != nil {
		t.Fatalf("encode: %v", err)
	}

	if err := svc.CreateAndUploadUserAvatarFromImage(context.Background(), u, raw.Bytes()); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(u.AvatarBucketKey, "user_avatar/"+u.ID.String()+"/") {
		t.Fatalf("key: got=%q", u.AvatarBucketKey)
	}
	if _, ok := bucket.object(gcp.BucketCategoryAvatar, u.AvatarBucketKey); !ok {
		t.Fatalf("object not stored")
	}
	if u.AvatarURL != bucket.GetPublicURL(gcp.BucketCategoryAvatar, u.AvatarBucketKey) {
		t.Fatalf("url: got=%q", u.AvatarURL)
	}
	if len(bucket.deleted) != 1 || bucket.deleted[0] != "user_avatar/old.png" {
		t.Fatalf("deleted: got=%v", bucket.deleted)
	}
}

func TestUploadAvatarRejectsBadInput(t *testing.T) {
	svc := newTestAvatarService(t, newMemBucket())
	u := &types.User{ID: uuid.New()}
	if err := svc.CreateAndUploadUserAvatarFromImage(context.Background(), u, nil); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("empty: want=validation got=%v", err)
	}
	if err := svc.CreateAndUploadUserAvatarFromImage(context.Background(), u, []byte("not an image")); !apperr.IsCode(err, apperr.CodeValidation) {
		t.Fatalf("garbage: want=validation got=%v", err)
	}
}

func TestComputeInitials(t *testing.T) {
	cases := map[[2]string]string{
		{"ada", "lovelace"}: "AL",
		{" ", "x"}:          "?X",
		{"élodie", ""}:      "É?",
	}
	for in, want := range cases {
		if got := computeInitials(in[0], in[1]); got != want {
			t.Fatalf("%v: want=%s got=%s", in, want, got)
		}
	}
}
