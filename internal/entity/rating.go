package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// DbRating is one user's rating of one store.
type DbRating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_ratings_user_store" json:"user_id"`
	StoreID   uint      `gorm:"column:store_id;not null;uniqueIndex:idx_ratings_user_store;index:idx_ratings_store" json:"store_id"`
	Rating    int       `gorm:"column:rating;not null;check:chk_ratings_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment   *string   `gorm:"column:comment;type:varchar(500)" json:"comment"`
}

// TableName overrides default pluralised name.
func (DbRating) TableName() string {
	return "ratings"
}

// RatingWithUser is a store rating joined with the rater's display fields.
type RatingWithUser struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
}

type RatingSubmitRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

type RatingResponse struct {
	Message string   `json:"message"`
	Rating  DbRating `json:"rating"`
}
