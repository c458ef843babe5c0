package entity

import "time"

// DbPasswordReset is a single-use password reset token.
type DbPasswordReset struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	Token     string    `gorm:"column:token;type:varchar(255);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
}

// TableName overrides default pluralised name.
func (DbPasswordReset) TableName() string {
	return "password_resets"
}

// Expired reports whether the token is past its expiry at now.
func (p *DbPasswordReset) Expired(now time.Time) bool {
	return p == nil || p.ExpiresAt.Before(now)
}
