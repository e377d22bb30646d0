package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vaultkeeper/vaultkeeper/internal/cryptox"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
)

// ItemService manages credential items. The contract is plaintext in,
// plaintext out: sensitive fields are encrypted on every write with a fresh
// IV and decrypted on every read, so ciphertext exists only at rest.
type ItemService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	access      *AccessService
	cipher      *cryptox.FieldCipher
}

// NewItemService constructs an ItemService.
func NewItemService(db *sql.DB, rm repomanager.RepositoryManager, access *AccessService, cipher *cryptox.FieldCipher) *ItemService {
	return &ItemService{db: db, repomanager: rm, access: access, cipher: cipher}
}

// SearchInput selects items for Search. A nil VaultID scopes the search to
// every vault the caller owns; grants are not consulted on that path.
// CategoryID is applied only when CategorySet is true — nil then means
// "items with no category". Query matches the title only.
type SearchInput struct {
	VaultID     *int64
	CategoryID  *int64
	CategorySet bool
	Type        *models.ItemType
	Query       string
}

// Create stores a new credential item. Requires write or better on the
// target vault.
func (s *ItemService) Create(ctx context.Context, item *models.CredentialItem, callerID int64) (*models.CredentialItem, error) {
	if _, err := models.ParseItemType(string(item.Type)); err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, item.VaultID, callerID, models.PermissionWrite); err != nil {
		return nil, err
	}

	item.CreatedBy = callerID

	stored := *item
	if err := s.encryptFields(&stored); err != nil {
		return nil, fmt.Errorf("error encrypting item: %w", err)
	}
	if _, err := s.repomanager.Items(s.db).Create(ctx, &stored); err != nil {
		return nil, err
	}

	// Plaintext response with the storage-assigned metadata.
	item.ID = stored.ID
	item.CreatedAt = stored.CreatedAt
	item.UpdatedAt = stored.UpdatedAt
	return item, nil
}

// Update applies a partial update. Sensitive fields present in the patch are
// re-encrypted whole under a new IV; the old ciphertext is discarded.
func (s *ItemService) Update(ctx context.Context, id int64, patch models.ItemPatch, callerID int64) (*models.CredentialItem, error) {
	itemRepo := s.repomanager.Items(s.db)

	item, err := itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, item.VaultID, callerID, models.PermissionWrite); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.CategoryIDSet {
		item.CategoryID = patch.CategoryID
	}
	if patch.WebsiteURLSet {
		item.WebsiteURL = patch.WebsiteURL
	}
	if patch.UsernameSet {
		item.Username = patch.Username
	}
	if patch.CardHolderNameSet {
		item.CardHolderName = patch.CardHolderName
	}
	if patch.CardExpiryDateSet {
		item.CardExpiryDate = patch.CardExpiryDate
	}
	if patch.LicenseEmailSet {
		item.LicenseEmail = patch.LicenseEmail
	}

	sensitive := []struct {
		set   bool
		value *string
		field **string
	}{
		{patch.PasswordSet, patch.Password, &item.Password},
		{patch.NotesSet, patch.Notes, &item.Notes},
		{patch.CardNumberSet, patch.CardNumber, &item.CardNumber},
		{patch.CardCVVSet, patch.CardCVV, &item.CardCVV},
		{patch.LicenseKeySet, patch.LicenseKey, &item.LicenseKey},
	}
	for _, f := range sensitive {
		if !f.set {
			continue
		}
		if f.value == nil {
			*f.field = nil
			continue
		}
		encrypted, err := s.cipher.Encrypt(*f.value)
		if err != nil {
			return nil, fmt.Errorf("error encrypting item: %w", err)
		}
		*f.field = &encrypted
	}

	if err := itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	if err := s.decryptFields(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetByID returns the decrypted item. Requires read or better on the item's
// vault.
func (s *ItemService) GetByID(ctx context.Context, id, callerID int64) (*models.CredentialItem, error) {
	item, err := s.repomanager.Items(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.Require(ctx, item.VaultID, callerID, models.PermissionRead); err != nil {
		return nil, err
	}
	if err := s.decryptFields(item); err != nil {
		return nil, err
	}
	return item, nil
}

// ListByVault returns all of the vault's items, decrypted. Requires read or
// better.
func (s *ItemService) ListByVault(ctx context.Context, vaultID, callerID int64) ([]*models.CredentialItem, error) {
	if err := s.access.Require(ctx, vaultID, callerID, models.PermissionRead); err != nil {
		return nil, err
	}
	items, err := s.repomanager.Items(s.db).ListByVault(ctx, vaultID)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(items)
}

// Search returns decrypted items matching the filter. With an explicit vault
// the caller needs read on it; without one the scope is the caller's owned
// vaults.
func (s *ItemService) Search(ctx context.Context, input SearchInput, callerID int64) ([]*models.CredentialItem, error) {
	var vaultIDs []int64
	if input.VaultID != nil {
		if err := s.access.Require(ctx, *input.VaultID, callerID, models.PermissionRead); err != nil {
			return nil, err
		}
		vaultIDs = []int64{*input.VaultID}
	} else {
		owned, err := s.repomanager.Vaults(s.db).ListByOwner(ctx, callerID)
		if err != nil {
			return nil, err
		}
		for _, vault := range owned {
			vaultIDs = append(vaultIDs, vault.ID)
		}
	}

	filter := models.ItemFilter{
		VaultIDs:    vaultIDs,
		CategoryID:  input.CategoryID,
		CategorySet: input.CategorySet,
		Type:        input.Type,
		Query:       input.Query,
	}
	items, err := s.repomanager.Items(s.db).Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.decryptAll(items)
}

// Delete hard-deletes the item. Requires write or better on its vault.
func (s *ItemService) Delete(ctx context.Context, id, callerID int64) error {
	itemRepo := s.repomanager.Items(s.db)

	item, err := itemRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.Require(ctx, item.VaultID, callerID, models.PermissionWrite); err != nil {
		return err
	}
	return itemRepo.Delete(ctx, id)
}

func (s *ItemService) encryptFields(item *models.CredentialItem) error {
	for _, field := range sensitiveFields(item) {
		if *field == nil {
			continue
		}
		encrypted, err := s.cipher.Encrypt(**field)
		if err != nil {
			return err
		}
		*field = &encrypted
	}
	return nil
}

// decryptFields decrypts the item's sensitive fields in place. A value that
// cannot be decrypted is corrupt stored data and surfaces as an integrity
// error rather than garbage.
func (s *ItemService) decryptFields(item *models.CredentialItem) error {
	for _, field := range sensitiveFields(item) {
		if *field == nil {
			continue
		}
		plaintext, err := s.cipher.Decrypt(**field)
		if err != nil {
			return err
		}
		*field = &plaintext
	}
	return nil
}

func (s *ItemService) decryptAll(items []*models.CredentialItem) ([]*models.CredentialItem, error) {
	for _, item := range items {
		if err := s.decryptFields(item); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func sensitiveFields(item *models.CredentialItem) []**string {
	return []**string{&item.Password, &item.Notes, &item.CardNumber, &item.CardCVV, &item.LicenseKey}
}
