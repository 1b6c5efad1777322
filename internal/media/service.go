package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/fundihub/fundihub-backend/pkg/db"
	"github.com/fundihub/fundihub-backend/pkg/db/models"
	"github.com/fundihub/fundihub-backend/pkg/enums"
	pkgerrors "github.com/fundihub/fundihub-backend/pkg/errors"
)

const maxUploadBytes = 20 * 1024 * 1024

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service exposes media presign and finalize semantics.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
	Finalize(ctx context.Context, userID, mediaID uuid.UUID) (*MediaDTO, error)
	Resolve(ctx context.Context, userID, mediaID uuid.UUID) (*MediaDTO, error)
}

type service struct {
	db          *dbpkg.Client
	gcs         gcsClient
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// NewService constructs a media service backed by the GCS signer.
func NewService(client *dbpkg.Client, gcs gcsClient, bucket string, uploadTTL, downloadTTL time.Duration) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("database client required")
	}
	if gcs == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if uploadTTL <= 0 || downloadTTL <= 0 {
		return nil, fmt.Errorf("url expiries must be positive")
	}
	return &service{
		db:          client,
		gcs:         gcs,
		bucket:      bucket,
		uploadTTL:   uploadTTL,
		downloadTTL: downloadTTL,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Kind      enums.MediaKind `json:"kind" validate:"required"`
	MimeType  string          `json:"mime_type" validate:"required"`
	FileName  string          `json:"file_name" validate:"required"`
	SizeBytes int64           `json:"size_bytes" validate:"required,min=1"`
}

// PresignOutput contains the data returned to the client after creating a media record.
type PresignOutput struct {
	MediaID      uuid.UUID `json:"media_id"`
	GCSKey       string    `json:"gcs_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MediaDTO is the transport shape for media rows.
type MediaDTO struct {
	ID        uuid.UUID       `json:"id"`
	Kind      enums.MediaKind `json:"kind"`
	URL       *string         `json:"url,omitempty"`
	FileName  string          `json:"file_name"`
	MimeType  string          `json:"mime_type"`
	SizeBytes int64           `json:"size_bytes"`
	Finalized bool            `json:"finalized"`
	CreatedAt time.Time       `json:"created_at"`
}

var mimeTypesByKind = map[enums.MediaKind][]string{
	enums.MediaKindServiceImage:    {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindProductImage:    {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindEquipmentImage:  {"image/png", "image/jpeg", "image/webp"},
	enums.MediaKindPaymentQR:       {"image/png", "image/jpeg"},
	enums.MediaKindVerificationDoc: {"application/pdf", "image/png", "image/jpeg"},
	enums.MediaKindAvatar:          {"image/png", "image/jpeg", "image/webp"},
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	if input.Kind == "" || !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", maxUploadBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(input.Kind, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for media kind")
	}

	mediaID := uuid.New()
	gcsKey := buildGCSKey(input.Kind, mediaID, fileName)

	repo := NewRepository(s.db.DB())
	row := &models.Media{
		ID:        mediaID,
		OwnerID:   userID,
		Kind:      input.Kind,
		GCSKey:    gcsKey,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}
	if _, err := repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist media row")
	}

	expiresAt := time.Now().Add(s.uploadTTL)
	signedURL, err := s.gcs.SignedURL(s.bucket, gcsKey, mimeType, s.uploadTTL)
	if err != nil {
		_ = repo.Delete(ctx, mediaID)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		MediaID:      mediaID,
		GCSKey:       gcsKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    expiresAt,
	}, nil
}

// Finalize records that the client finished uploading. Public kinds get a
// stable object URL; private kinds are resolved on demand with a signed GET.
func (s *service) Finalize(ctx context.Context, userID, mediaID uuid.UUID) (*MediaDTO, error) {
	repo := NewRepository(s.db.DB())
	row, err := repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup media")
	}
	if row.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "media belongs to another user")
	}

	var url *string
	if !row.Kind.IsPrivate() {
		public := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, row.GCSKey)
		url = &public
	}
	if err := repo.Finalize(ctx, mediaID, url); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize media")
	}
	row.Finalized = true
	row.URL = url
	return fromModel(row), nil
}

// Resolve returns the media row with a readable URL. Private kinds get a
// short-lived signed GET URL scoped to the owner.
func (s *service) Resolve(ctx context.Context, userID, mediaID uuid.UUID) (*MediaDTO, error) {
	repo := NewRepository(s.db.DB())
	row, err := repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup media")
	}

	dto := fromModel(row)
	if row.Kind.IsPrivate() {
		if row.OwnerID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "media belongs to another user")
		}
		signed, err := s.gcs.SignedReadURL(s.bucket, row.GCSKey, s.downloadTTL)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign read url")
		}
		dto.URL = &signed
	}
	return dto, nil
}

func fromModel(m *models.Media) *MediaDTO {
	return &MediaDTO{
		ID:        m.ID,
		Kind:      m.Kind,
		URL:       m.URL,
		FileName:  m.FileName,
		MimeType:  m.MimeType,
		SizeBytes: m.SizeBytes,
		Finalized: m.Finalized,
		CreatedAt: m.CreatedAt,
	}
}

func isAllowedMime(kind enums.MediaKind, mimeType string) bool {
	if allowed, ok := mimeTypesByKind[kind]; ok && len(allowed) > 0 {
		for _, candidate := range allowed {
			if strings.EqualFold(candidate, mimeType) {
				return true
			}
		}
		return false
	}
	return true
}

func buildGCSKey(kind enums.MediaKind, id uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = id.String()
	}
	return fmt.Sprintf("media/%s/%s/%s", kind, id.String(), cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
