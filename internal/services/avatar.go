package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/domain/apperr"
	"github.com/yungbote/mentorship-backend/internal/platform/gcp"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

const (
	avatarSize     = 512
	maxAvatarBytes = 8 << 20
)

var defaultAvatarColors = []color.NRGBA{
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0x14, G: 0xB8, B: 0xA6, A: 0xFF},
}

type AvatarConfig struct {
	// ColorsPath is a JSON array of {R,G,B,A}; empty uses the built-in palette.
	ColorsPath string
	// FontPath is a TTF file; empty uses Go Bold.
	FontPath string
}

type AvatarService interface {
	// CreateAndUploadUserAvatar renders an initials avatar and points user at it.
	CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error
	CreateAndUploadUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error
	GenerateUserAvatar(user *types.User) (bytes.Buffer, error)
}

type avatarService struct {
	log           *logger.Logger
	bucketService gcp.BucketService

	bgColors   []color.NRGBA
	colorByHex map[string]color.NRGBA
	rnd        *rand.Rand

	fontFace font.Face
}

func NewAvatarService(log *logger.Logger, bucketService gcp.BucketService, cfg AvatarConfig) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	bgColors := defaultAvatarColors
	if p := strings.TrimSpace(cfg.ColorsPath); p != "" {
		serviceLog.Info("Loading avatar colors...", "path", p)
		loaded, err := loadColorsFromFile(p)
		if err != nil {
			return nil, fmt.Errorf("could not load avatar colors: %w", err)
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("avatar colors list is empty")
		}
		bgColors = loaded
	}

	colorByHex := make(map[string]color.NRGBA, len(bgColors))
	for _, c := range bgColors {
		colorByHex[strings.ToUpper(nrgbaToHex(c))] = c
	}

	fontBytes := gobold.TTF
	if p := strings.TrimSpace(cfg.FontPath); p != "" {
		serviceLog.Info("Loading avatar font", "font", p)
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		fontBytes = raw
	}
	face, err := loadFontFace(fontBytes, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:           serviceLog,
		bucketService: bucketService,
		bgColors:      bgColors,
		colorByHex:    colorByHex,
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())),
		fontFace:      face,
	}, nil
}

func (as *avatarService) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	buf, err := as.GenerateUserAvatar(user)
	if err != nil {
		return err
	}
	return as.replace(ctx, user, buf)
}

func (as *avatarService) CreateAndUploadUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	const op = "avatar.upload"
	if user == nil || user.ID == uuid.Nil {
		return fmt.Errorf("user required")
	}
	if len(raw) == 0 {
		return apperr.Validation(op, "image is empty")
	}
	if len(raw) > maxAvatarBytes {
		return apperr.Validation(op, "image is too large")
	}
	processed, err := processUploadedAvatar(raw, avatarSize)
	if err != nil {
		return apperr.New(apperr.CodeValidation, op, "image could not be decoded", err)
	}
	return as.replace(ctx, user, processed)
}

// replace uploads under a versioned key so CDNs never serve a stale image,
// then deletes the previous object best effort.
func (as *avatarService) replace(ctx context.Context, user *types.User, buf bytes.Buffer) error {
	if as.bucketService == nil {
		return apperr.New(apperr.CodeUpstream, "avatar.upload", "avatar storage not configured", nil)
	}
	oldKey := strings.TrimSpace(user.AvatarBucketKey)
	newKey := fmt.Sprintf("user_avatar/%s/%d.png", user.ID.String(), time.Now().UnixNano())

	if err := as.bucketService.UploadFile(ctx, gcp.BucketCategoryAvatar, newKey, bytes.NewReader(buf.Bytes())); err != nil {
		return apperr.New(apperr.CodeUpstream, "avatar.upload", "failed to upload user avatar", err)
	}
	user.AvatarBucketKey = newKey
	user.AvatarURL = as.bucketService.GetPublicURL(gcp.BucketCategoryAvatar, newKey)

	if oldKey != "" && oldKey != newKey {
		if err := as.bucketService.DeleteFile(ctx, gcp.BucketCategoryAvatar, oldKey); err != nil {
			as.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) GenerateUserAvatar(user *types.User) (bytes.Buffer, error) {
	as.ensureUserAvatarColor(user)

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Clip()

	dc.SetColor(as.pickColor(user.AvatarColor))
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	initials := computeInitials(user.FirstName, user.LastName)
	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initials, avatarSize/2, avatarSize/2, 0.5, 0.35)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}

func processUploadedAvatar(raw []byte, size int) (bytes.Buffer, error) {
	var out bytes.Buffer

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return out, fmt.Errorf("decode image: %w", err)
	}

	// Center-crop to square
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-side)/2
	y0 := b.Min.Y + (b.Dy()-side)/2

	cropRect := image.Rect(0, 0, side, side)
	cropped := image.NewRGBA(cropRect)
	draw.Draw(cropped, cropRect, img, image.Point{X: x0, Y: y0}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)

	dc := gg.NewContext(size, size)
	dc.DrawCircle(float64(size)/2, float64(size)/2, float64(size)/2)
	dc.Clip()
	dc.DrawImage(dst, 0, 0)

	if err := dc.EncodePNG(&out); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

// -------------------- Color helpers --------------------

func (as *avatarService) ensureUserAvatarColor(user *types.User) {
	if n := normalizeHex(user.AvatarColor); n != "" {
		if _, ok := as.colorByHex[n]; ok {
			user.AvatarColor = n
			return
		}
	}
	user.AvatarColor = nrgbaToHex(as.bgColors[as.rnd.Intn(len(as.bgColors))])
}

func (as *avatarService) pickColor(hexStr string) color.NRGBA {
	if c, ok := as.colorByHex[normalizeHex(hexStr)]; ok {
		return c
	}
	return as.bgColors[0]
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	s = strings.ToUpper(s)
	if len(s) != 7 {
		return ""
	}
	if _, err := hex.DecodeString(s[1:]); err != nil {
		return ""
	}
	return s
}

func nrgbaToHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// -------------------- Misc helpers --------------------

func computeInitials(first, last string) string {
	initial := func(s string) string {
		s = strings.TrimSpace(s)
		for _, r := range s {
			return strings.ToUpper(string(r))
		}
		return "?"
	}
	return initial(first) + initial(last)
}

func loadColorsFromFile(jsonPath string) ([]color.NRGBA, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read file error: %w", err)
	}
	var colors []color.NRGBA
	if err := json.Unmarshal(data, &colors); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return colors, nil
}

func loadFontFace(fontBytes []byte, size float64) (font.Face, error) {
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
