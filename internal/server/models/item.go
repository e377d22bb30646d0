package models

import (
	"fmt"
	"time"
)

// ItemType is the closed set of credential item variants. Each variant uses
// a different subset of the optional item fields.
type ItemType string

const (
	ItemTypePassword        ItemType = "password"
	ItemTypeCreditCard      ItemType = "credit_card"
	ItemTypeSecureNote      ItemType = "secure_note"
	ItemTypeSoftwareLicense ItemType = "software_license"
)

// ParseItemType validates a wire-level item type string.
func ParseItemType(s string) (ItemType, error) {
	switch t := ItemType(s); t {
	case ItemTypePassword, ItemTypeCreditCard, ItemTypeSecureNote, ItemTypeSoftwareLicense:
		return t, nil
	default:
		return "", fmt.Errorf("unknown item type %q", s)
	}
}

// CredentialItem is a single stored secret record. The sensitive fields
// (Password, Notes, CardNumber, CardCVV, LicenseKey) hold ciphertext in the
// "iv_hex:ciphertext_hex" form at rest; the item service decrypts them before
// the record leaves the core, so plaintext never touches the database and
// ciphertext never reaches the caller.
type CredentialItem struct {
	ID         int64
	Title      string
	Type       ItemType
	VaultID    int64
	CategoryID *int64
	CreatedBy  int64

	// Sensitive fields, encrypted at rest.
	Password   *string
	Notes      *string
	CardNumber *string
	CardCVV    *string
	LicenseKey *string

	// Non-sensitive fields, stored in clear.
	WebsiteURL     *string
	Username       *string
	CardHolderName *string
	CardExpiryDate *string
	LicenseEmail   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ItemPatch carries a partial credential item update. Sensitive fields
// present in the patch are re-encrypted whole with a fresh IV; old
// ciphertext is discarded, never patched incrementally.
type ItemPatch struct {
	Title *string

	CategoryID    *int64
	CategoryIDSet bool

	Password    *string
	PasswordSet bool

	Notes    *string
	NotesSet bool

	CardNumber    *string
	CardNumberSet bool

	CardCVV    *string
	CardCVVSet bool

	LicenseKey    *string
	LicenseKeySet bool

	WebsiteURL    *string
	WebsiteURLSet bool

	Username    *string
	UsernameSet bool

	CardHolderName    *string
	CardHolderNameSet bool

	CardExpiryDate    *string
	CardExpiryDateSet bool

	LicenseEmail    *string
	LicenseEmailSet bool
}

// ItemFilter selects credential items for search. All present conditions are
// ANDed. CategoryID is consulted only when CategorySet is true; a nil
// CategoryID then means "items with no category". Query matches the title
// only, case-insensitively.
type ItemFilter struct {
	VaultIDs    []int64
	CategoryID  *int64
	CategorySet bool
	Type        *ItemType
	Query       string
}
