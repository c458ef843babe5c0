package entity

import "time"

// DbStore represents a persisted store. AverageRating is computed on read and
// never written.
type DbStore struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"column:name;type:varchar(60);not null" json:"name"`
	Email         string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	Address       string    `gorm:"column:address;type:varchar(400);not null" json:"address"`
	OwnerID       uint      `gorm:"column:owner_id;not null;index" json:"owner_id"`
	AverageRating float64   `gorm:"column:average_rating;->;-:migration" json:"average_rating"`
}

// TableName overrides default pluralised name.
func (DbStore) TableName() string {
	return "stores"
}

type StoreFilter struct {
	Name    string
	Email   string
	Address string
}

// StoreListQuery binds the admin store list query string.
type StoreListQuery struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Address string `form:"address"`
	SortBy  string `form:"sortBy"`
	SortDir string `form:"sortDir"`
}

// StoreSearchQuery binds the normal-user store browse query string.
type StoreSearchQuery struct {
	Search  string `form:"search"`
	SortBy  string `form:"sortBy"`
	SortDir string `form:"sortDir"`
}

type StoreCreateRequest struct {
	Name    string `json:"name" validate:"required,min=20,max=60"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
}

type StoreUpdateRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=20,max=60"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
	OwnerID *uint   `json:"owner_id,omitempty" validate:"omitempty,gt=0"`
}

// OwnerStoreCreateRequest is the store-owner payload; the email always comes
// from the authenticated identity.
type OwnerStoreCreateRequest struct {
	Name    string `json:"name" validate:"required,min=20,max=60"`
	Address string `json:"address" validate:"required,max=400"`
}

type OwnerStoreUpdateRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=20,max=60"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
}

type StoreListResponse struct {
	Stores []DbStore `json:"stores"`
}

type StoreResponse struct {
	Message string  `json:"message,omitempty"`
	Store   DbStore `json:"store"`
}

// UserStoreView is a store as seen by a normal user, with their own rating.
type UserStoreView struct {
	DbStore
	UserRating  *int    `json:"userRating"`
	UserComment *string `json:"userComment,omitempty"`
}

type UserStoreListResponse struct {
	Stores []UserStoreView `json:"stores"`
}

// StoreOwnerDashboard is returned for store owners; HasStore is false until
// the owner creates their store.
type StoreOwnerDashboard struct {
	HasStore      bool             `json:"hasStore"`
	Store         *DbStore         `json:"store,omitempty"`
	Ratings       []RatingWithUser `json:"ratings"`
	TotalRatings  int              `json:"totalRatings"`
	AverageRating float64          `json:"averageRating"`
}
