package sql

import (
	"context"
	"errors"
	"fmt"
	"storerating/internal/entity"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetRatingByUserAndStore returns the user's rating for a store, or
// gorm.ErrRecordNotFound.
func (r *GormRepository) GetRatingByUserAndStore(ctx context.Context, userID, storeID uint) (*entity.DbRating, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var rating entity.DbRating
	if err := r.db.WithContext(ctx).Where("user_id = ? AND store_id = ?", userID, storeID).Take(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// CreateRating inserts a new rating row.
func (r *GormRepository) CreateRating(ctx context.Context, rating *entity.DbRating) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if rating == nil {
		return fmt.Errorf("rating is nil")
	}
	return r.db.WithContext(ctx).Create(rating).Error
}

// UpdateRating overwrites the rating keyed by (userID, storeID).
func (r *GormRepository) UpdateRating(ctx context.Context, userID, storeID uint, value int, comment *string) (*entity.DbRating, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var updated *entity.DbRating
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		updated, err = updateRatingByKey(tx, userID, storeID, value, comment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func updateRatingByKey(tx *gorm.DB, userID, storeID uint, value int, comment *string) (*entity.DbRating, error) {
	result := tx.Model(&entity.DbRating{}).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Updates(map[string]interface{}{"rating": value, "comment": comment})
	if result.Error != nil {
		return nil, result.Error
	}
	var rating entity.DbRating
	if err := tx.Where("user_id = ? AND store_id = ?", userID, storeID).Take(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// UpsertRating inserts or overwrites the rating for (UserID, StoreID) in one
// transaction. The insert carries ON CONFLICT so a concurrent first rating
// for the same pair turns into an update instead of a duplicate key error.
// On return rating holds the persisted row.
func (r *GormRepository) UpsertRating(ctx context.Context, rating *entity.DbRating) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if rating == nil || rating.UserID == 0 || rating.StoreID == 0 {
		return false, fmt.Errorf("rating must reference a user and a store")
	}

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.DbRating
		err := tx.Where("user_id = ? AND store_id = ?", rating.UserID, rating.StoreID).Take(&existing).Error
		switch {
		case err == nil:
			updated, err := updateRatingByKey(tx, rating.UserID, rating.StoreID, rating.Rating, rating.Comment)
			if err != nil {
				return err
			}
			*rating = *updated
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		now := time.Now()
		rating.CreatedAt = now
		rating.UpdatedAt = now
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).Create(rating)
		if insert.Error != nil {
			return insert.Error
		}
		created = true

		var stored entity.DbRating
		if err := tx.Where("user_id = ? AND store_id = ?", rating.UserID, rating.StoreID).Take(&stored).Error; err != nil {
			return err
		}
		*rating = stored
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// GetStoreAverageRating returns the rounded mean rating of a store, 0 when unrated.
func (r *GormRepository) GetStoreAverageRating(ctx context.Context, storeID uint) (float64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var average float64
	if err := r.db.WithContext(ctx).Raw("SELECT "+averageRatingSQL("?")+" AS average_rating", storeID).Scan(&average).Error; err != nil {
		return 0, err
	}
	return average, nil
}

// ListRatingsForStore returns a store's ratings with rater name and email, newest first.
func (r *GormRepository) ListRatingsForStore(ctx context.Context, storeID uint) ([]entity.RatingWithUser, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	ratings := make([]entity.RatingWithUser, 0)
	err := r.db.WithContext(ctx).
		Table("ratings").
		Select("ratings.id, ratings.user_id, ratings.rating, ratings.comment, ratings.created_at, users.name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ?", storeID).
		Order("ratings.created_at DESC").
		Order("ratings.id DESC").
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetUserRatingsForStores returns userID's ratings keyed by store id.
func (r *GormRepository) GetUserRatingsForStores(ctx context.Context, userID uint, storeIDs []uint) (map[uint]entity.DbRating, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	result := make(map[uint]entity.DbRating, len(storeIDs))
	if userID == 0 || len(storeIDs) == 0 {
		return result, nil
	}

	var ratings []entity.DbRating
	if err := r.db.WithContext(ctx).Where("user_id = ? AND store_id IN ?", userID, storeIDs).Find(&ratings).Error; err != nil {
		return nil, err
	}
	for _, rating := range ratings {
		result[rating.StoreID] = rating
	}
	return result, nil
}

// CountRatings returns the global rating count.
func (r *GormRepository) CountRatings(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbRating{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
