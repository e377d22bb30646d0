package httpapi

import (
	"time"

	"github.com/vaultkeeper/vaultkeeper/internal/server/models"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type vaultResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	IsShared    bool      `json:"is_shared"`
	Permission  string    `json:"permission,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toVaultResponse(v *models.Vault, permission models.Permission) vaultResponse {
	return vaultResponse{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		OwnerID:     v.OwnerID,
		IsShared:    v.IsShared,
		Permission:  string(permission),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type categoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	VaultID     int64     `json:"vault_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCategoryResponse(c *models.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		VaultID:     c.VaultID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type itemResponse struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Type       string  `json:"type"`
	VaultID    int64   `json:"vault_id"`
	CategoryID *int64  `json:"category_id"`
	CreatedBy  int64   `json:"created_by"`
	Password   *string `json:"password,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	CardNumber *string `json:"card_number,omitempty"`
	CardCVV    *string `json:"card_cvv,omitempty"`
	LicenseKey *string `json:"license_key,omitempty"`

	WebsiteURL     *string `json:"website_url,omitempty"`
	Username       *string `json:"username,omitempty"`
	CardHolderName *string `json:"card_holder_name,omitempty"`
	CardExpiryDate *string `json:"card_expiry_date,omitempty"`
	LicenseEmail   *string `json:"license_email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toItemResponse(i *models.CredentialItem) itemResponse {
	return itemResponse{
		ID:             i.ID,
		Title:          i.Title,
		Type:           string(i.Type),
		VaultID:        i.VaultID,
		CategoryID:     i.CategoryID,
		CreatedBy:      i.CreatedBy,
		Password:       i.Password,
		Notes:          i.Notes,
		CardNumber:     i.CardNumber,
		CardCVV:        i.CardCVV,
		LicenseKey:     i.LicenseKey,
		WebsiteURL:     i.WebsiteURL,
		Username:       i.Username,
		CardHolderName: i.CardHolderName,
		CardExpiryDate: i.CardExpiryDate,
		LicenseEmail:   i.LicenseEmail,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func toItemResponses(items []*models.CredentialItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, i := range items {
		out = append(out, toItemResponse(i))
	}
	return out
}

type grantResponse struct {
	ID         int64     `json:"id"`
	VaultID    int64     `json:"vault_id"`
	UserID     int64     `json:"user_id"`
	Permission string    `json:"permission"`
	GrantedBy  int64     `json:"granted_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func toGrantResponse(g *models.VaultUserPermission) grantResponse {
	return grantResponse{
		ID:         g.ID,
		VaultID:    g.VaultID,
		UserID:     g.UserID,
		Permission: string(g.Permission),
		GrantedBy:  g.GrantedBy,
		CreatedAt:  g.CreatedAt,
	}
}
