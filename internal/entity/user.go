package entity

import "time"

// DbUser represents a persisted user account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"column:name;type:varchar(60);not null" json:"name"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;type:varchar(255);not null" json:"-"`
	Address      string    `gorm:"column:address;type:varchar(400)" json:"address"`
	Role         Role      `gorm:"column:role;type:varchar(20);index;not null;default:'normal_user'" json:"role"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "users"
}

// UserSummary is the public projection of a user; it never carries the hash.
type UserSummary struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserDetail extends the summary with the owned store's rating for store owners.
type UserDetail struct {
	UserSummary
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// UserFilter is a sparse filter over the user list. Empty fields are ignored.
type UserFilter struct {
	Name    string
	Email   string
	Address string
	Role    Role
}

// UserListQuery binds the admin user list query string.
type UserListQuery struct {
	Name    string `form:"name"`
	Email   string `form:"email"`
	Address string `form:"address"`
	Role    string `form:"role"`
	SortBy  string `form:"sortBy"`
	SortDir string `form:"sortDir"`
}

// UserCreateRequest is the admin payload for creating a user of any role.
type UserCreateRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"max=400"`
	Role     string `json:"role" validate:"required,role"`
}

// UserUpdateRequest is the admin payload for a partial user update.
type UserUpdateRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=20,max=60"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=400"`
	Role     *string `json:"role,omitempty" validate:"omitempty,role"`
	Password *string `json:"password,omitempty" validate:"omitempty,password"`
}

type UserListResponse struct {
	Users []UserSummary `json:"users"`
}

type UserResponse struct {
	Message string      `json:"message,omitempty"`
	User    UserSummary `json:"user"`
}

// DashboardSummary holds the admin dashboard totals.
type DashboardSummary struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

// ToSummary strips the password hash from a user row.
func (u *DbUser) ToSummary() UserSummary {
	if u == nil {
		return UserSummary{}
	}
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
