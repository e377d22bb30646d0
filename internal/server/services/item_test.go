package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vaultkeeper/vaultkeeper/internal/common"
	"github.com/vaultkeeper/vaultkeeper/internal/cryptox"
	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

func newTestCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()
	cipher, err := cryptox.NewFieldCipherFromHex(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("cipher init: %v", err)
	}
	return cipher
}

func encryptField(t *testing.T, cipher *cryptox.FieldCipher, plaintext string) *string {
	t.Helper()
	ct, err := cipher.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	return &ct
}

func TestItemCreate_EncryptsSensitiveFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	cipher := newTestCipher(t)
	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{},
		i: &fakeItemsRepo{nextID: 101},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), cipher)

	item := &models.CredentialItem{
		Title:    "GitHub",
		Type:     models.ItemTypePassword,
		VaultID:  1,
		Password: strptr("hunter2"),
		Username: strptr("octo"),
	}
	got, err := s.Create(context.Background(), item, 7)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// The caller gets plaintext back with storage metadata filled in.
	if got.ID != 101 || got.CreatedBy != 7 {
		t.Fatalf("unexpected item: %+v", got)
	}
	if got.Password == nil || *got.Password != "hunter2" {
		t.Fatalf("response password: %v", got.Password)
	}

	if len(rm.i.created) != 1 {
		t.Fatalf("want 1 stored item, got %d", len(rm.i.created))
	}
	stored := rm.i.created[0]
	if stored.Password == nil || *stored.Password == "hunter2" {
		t.Fatal("password stored in clear")
	}
	if !strings.Contains(*stored.Password, ":") {
		t.Fatalf("stored password not in iv:ct form: %q", *stored.Password)
	}
	plaintext, err := cipher.Decrypt(*stored.Password)
	if err != nil || plaintext != "hunter2" {
		t.Fatalf("stored password round trip: %q, %v", plaintext, err)
	}
	// Non-sensitive fields stay in clear.
	if stored.Username == nil || *stored.Username != "octo" {
		t.Fatalf("stored username: %v", stored.Username)
	}
}

func TestItemCreate_UnknownType(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{}
	s := NewItemService(db, rm, NewAccessService(db, rm), newTestCipher(t))

	item := &models.CredentialItem{Title: "x", Type: "certificate", VaultID: 1}
	if _, err := s.Create(context.Background(), item, 7); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestItemCreate_RequiresWrite(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{grantOut: &models.VaultUserPermission{Permission: models.PermissionRead}},
		i: &fakeItemsRepo{},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), newTestCipher(t))

	item := &models.CredentialItem{Title: "x", Type: models.ItemTypePassword, VaultID: 1}
	_, err := s.Create(context.Background(), item, 9)
	if !errors.Is(err, common.ErrorInsufficientPermission) {
		t.Fatalf("want ErrorInsufficientPermission, got %v", err)
	}
	if len(rm.i.created) != 0 {
		t.Fatal("item stored despite denial")
	}
}

func TestItemGetByID_Decrypts(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	cipher := newTestCipher(t)
	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{},
		i: &fakeItemsRepo{byID: map[int64]*models.CredentialItem{
			101: {
				ID:      101,
				Title:   "GitHub",
				Type:    models.ItemTypePassword,
				VaultID: 1,
				Notes:   encryptField(t, cipher, "totp seed inside"),
			},
		}},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), cipher)

	got, err := s.GetByID(context.Background(), 101, 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Notes == nil || *got.Notes != "totp seed inside" {
		t.Fatalf("notes not decrypted: %v", got.Notes)
	}
}

func TestItemGetByID_CorruptCiphertext(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{},
		i: &fakeItemsRepo{byID: map[int64]*models.CredentialItem{
			101: {ID: 101, VaultID: 1, Password: strptr("not-hex:also-not-hex")},
		}},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), newTestCipher(t))

	_, err := s.GetByID(context.Background(), 101, 7)
	if !errors.Is(err, common.ErrorIntegrity) {
		t.Fatalf("want ErrorIntegrity, got %v", err)
	}
}

func TestItemUpdate_PatchAndReencrypt(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	cipher := newTestCipher(t)
	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{},
		i: &fakeItemsRepo{byID: map[int64]*models.CredentialItem{
			101: {
				ID:       101,
				Title:    "GitHub",
				Type:     models.ItemTypePassword,
				VaultID:  1,
				Password: encryptField(t, cipher, "hunter2"),
				Notes:    encryptField(t, cipher, "old note"),
			},
		}},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), cipher)

	patch := models.ItemPatch{
		Title:       strptr("GitHub (work)"),
		NotesSet:    true,
		Notes:       strptr("new note"),
		PasswordSet: true,
		Password:    nil, // explicit clear
	}
	got, err := s.Update(context.Background(), 101, patch, 7)
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Title != "GitHub (work)" {
		t.Fatalf("title: %q", got.Title)
	}
	if got.Password != nil {
		t.Fatalf("password not cleared: %v", got.Password)
	}
	if got.Notes == nil || *got.Notes != "new note" {
		t.Fatalf("notes: %v", got.Notes)
	}
	if rm.i.updated == nil {
		t.Fatal("repository Update not called")
	}
}

func TestItemSearch_DefaultsToOwnedVaults(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{owned: []*models.Vault{{ID: 1, OwnerID: 7}, {ID: 3, OwnerID: 7}}},
		i: &fakeItemsRepo{},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), newTestCipher(t))

	noCategory := true
	itemType := models.ItemTypePassword
	input := SearchInput{CategorySet: noCategory, Type: &itemType, Query: "git"}
	if _, err := s.Search(context.Background(), input, 7); err != nil {
		t.Fatalf("Search error: %v", err)
	}

	f := rm.i.searchFilter
	if len(f.VaultIDs) != 2 || f.VaultIDs[0] != 1 || f.VaultIDs[1] != 3 {
		t.Fatalf("vault scope: %v", f.VaultIDs)
	}
	if !f.CategorySet || f.CategoryID != nil {
		t.Fatalf("category filter: set=%v id=%v", f.CategorySet, f.CategoryID)
	}
	if f.Type == nil || *f.Type != models.ItemTypePassword || f.Query != "git" {
		t.Fatalf("filter: %+v", f)
	}
}

func TestItemSearch_ExplicitVaultRequiresRead(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{},
		i: &fakeItemsRepo{},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), newTestCipher(t))

	_, err := s.Search(context.Background(), SearchInput{VaultID: intptr(1)}, 9)
	if !errors.Is(err, common.ErrorInsufficientPermission) {
		t.Fatalf("want ErrorInsufficientPermission, got %v", err)
	}
}

func TestItemDelete_RequiresWrite(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		v: &fakeVaultsRepo{byID: map[int64]*models.Vault{1: {ID: 1, OwnerID: 7}}},
		p: &fakePermissionsRepo{grantOut: &models.VaultUserPermission{Permission: models.PermissionRead}},
		i: &fakeItemsRepo{byID: map[int64]*models.CredentialItem{101: {ID: 101, VaultID: 1}}},
	}
	s := NewItemService(db, rm, NewAccessService(db, rm), newTestCipher(t))

	err := s.Delete(context.Background(), 101, 9)
	if !errors.Is(err, common.ErrorInsufficientPermission) {
		t.Fatalf("want ErrorInsufficientPermission, got %v", err)
	}
	if len(rm.i.deleted) != 0 {
		t.Fatal("item deleted despite denial")
	}
}
