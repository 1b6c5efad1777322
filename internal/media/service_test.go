package media

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/fundihub/fundihub-backend/pkg/enums"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"invoice.pdf":          "invoice.pdf",
		"  my photo.png  ":     "my-photo.png",
		"../../etc/passwd":     "passwd",
		"dir\\drill bits.jpg":  "dirdrill-bits.jpg",
		"---weird--name.png--": "weird--name.png",
		"":                     "",
	}
	for input, want := range cases {
		if got := sanitizeFileName(input); got != want {
			t.Errorf("sanitizeFileName(%q): expected %q, got %q", input, want, got)
		}
	}
}

func TestBuildGCSKey(t *testing.T) {
	id := uuid.New()

	key := buildGCSKey(enums.MediaKindProductImage, id, "drill bits.jpg")
	want := "media/product_image/" + id.String() + "/drill-bits.jpg"
	if key != want {
		t.Fatalf("expected %s, got %s", want, key)
	}

	// Names that sanitize away fall back to the media id.
	key = buildGCSKey(enums.MediaKindAvatar, id, "///")
	if !strings.HasSuffix(key, "/"+id.String()) {
		t.Fatalf("expected id fallback, got %s", key)
	}
}

func TestIsAllowedMime(t *testing.T) {
	if !isAllowedMime(enums.MediaKindServiceImage, "image/png") {
		t.Fatal("png must be allowed for service images")
	}
	if !isAllowedMime(enums.MediaKindServiceImage, "IMAGE/JPEG") {
		t.Fatal("mime comparison must be case insensitive")
	}
	if isAllowedMime(enums.MediaKindPaymentQR, "application/pdf") {
		t.Fatal("pdf must not be allowed for payment QR codes")
	}
	if !isAllowedMime(enums.MediaKindVerificationDoc, "application/pdf") {
		t.Fatal("pdf must be allowed for verification documents")
	}
}
