package enums

import "fmt"

// MediaKind maps to the media_kind enum in Postgres.
type MediaKind string

const (
	MediaKindServiceImage    MediaKind = "service_image"
	MediaKindProductImage    MediaKind = "product_image"
	MediaKindEquipmentImage  MediaKind = "equipment_image"
	MediaKindPaymentQR       MediaKind = "payment_qr"
	MediaKindVerificationDoc MediaKind = "verification_doc"
	MediaKindAvatar          MediaKind = "avatar"
)

var validMediaKinds = []MediaKind{
	MediaKindServiceImage,
	MediaKindProductImage,
	MediaKindEquipmentImage,
	MediaKindPaymentQR,
	MediaKindVerificationDoc,
	MediaKindAvatar,
}

// String implements fmt.Stringer.
func (m MediaKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MediaKind.
func (m MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}

// IsPrivate reports whether objects of this kind must never get a public URL.
func (m MediaKind) IsPrivate() bool {
	return m == MediaKindVerificationDoc
}
