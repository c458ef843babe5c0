package sql

import (
	"context"
	"errors"
	"fmt"
	"storerating/internal/entity"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// storeSelect returns a query over stores that also yields average_rating.
func (r *GormRepository) storeSelect(db *gorm.DB) *gorm.DB {
	return db.Model(&entity.DbStore{}).
		Select("stores.*, " + averageRatingSQL("stores.id") + " AS average_rating")
}

// CreateStore inserts a store for an existing owner.
func (r *GormRepository) CreateStore(ctx context.Context, store *entity.DbStore) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if store == nil {
		return fmt.Errorf("store is nil")
	}
	store.Email = strings.ToLower(strings.TrimSpace(store.Email))
	return r.db.WithContext(ctx).Create(store).Error
}

// CreateStoreWithOwner finds the owner account by owner.Email or creates it
// from owner, then inserts store for it, all in one transaction. An existing
// account is only reused when it is a store owner without a store. On return
// owner holds the persisted account and created reports whether it was new.
func (r *GormRepository) CreateStoreWithOwner(ctx context.Context, store *entity.DbStore, owner *entity.DbUser) (bool, error) {
	if r == nil || r.db == nil {
		return false, fmt.Errorf("repository not initialised")
	}
	if store == nil || owner == nil {
		return false, fmt.Errorf("store and owner are required")
	}
	owner.Email = strings.ToLower(strings.TrimSpace(owner.Email))
	store.Email = strings.ToLower(strings.TrimSpace(store.Email))

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.DbUser
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("LOWER(email) = ?", owner.Email).
			Take(&existing).Error
		switch {
		case err == nil:
			if existing.Role != entity.RoleStoreOwner {
				return ErrOwnerNotEligible
			}
			var owned int64
			if err := tx.Model(&entity.DbStore{}).Where("owner_id = ?", existing.ID).Count(&owned).Error; err != nil {
				return err
			}
			if owned > 0 {
				return ErrOwnerHasStore
			}
			*owner = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			owner.Role = entity.RoleStoreOwner
			if err := tx.Create(owner).Error; err != nil {
				return err
			}
			created = true
		default:
			return err
		}

		store.OwnerID = owner.ID
		return tx.Create(store).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// CreateOwnedStore inserts store for store.OwnerID unless that owner already
// has one. The owner row is locked for the duration of the check.
func (r *GormRepository) CreateOwnedStore(ctx context.Context, store *entity.DbStore) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if store == nil || store.OwnerID == 0 {
		return fmt.Errorf("store owner is required")
	}
	store.Email = strings.ToLower(strings.TrimSpace(store.Email))

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner entity.DbUser
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&owner, store.OwnerID).Error; err != nil {
			return err
		}
		var owned int64
		if err := tx.Model(&entity.DbStore{}).Where("owner_id = ?", owner.ID).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return ErrOwnerHasStore
		}
		return tx.Create(store).Error
	})
}

// GetStoreByID loads a store with its average rating.
func (r *GormRepository) GetStoreByID(ctx context.Context, id uint) (*entity.DbStore, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var store entity.DbStore
	if err := r.storeSelect(r.db.WithContext(ctx)).Where("stores.id = ?", id).Take(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListStores returns stores matching filter, each with its average rating.
func (r *GormRepository) ListStores(ctx context.Context, filter entity.StoreFilter, sort entity.SortOrder) ([]entity.DbStore, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}

	query := r.storeSelect(r.db.WithContext(ctx))
	query = whereContains(query, "stores.name", filter.Name)
	query = whereContains(query, "stores.email", filter.Email)
	query = whereContains(query, "stores.address", filter.Address)
	query = storeSortColumns.apply(query, sort)

	stores := make([]entity.DbStore, 0)
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// UpdateStore applies the recognised fields of updates, returning
// ErrNoUpdates when nothing was supplied.
func (r *GormRepository) UpdateStore(ctx context.Context, id uint, updates entity.StoreUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid store id")
	}
	if updates.IsEmpty() {
		return ErrNoUpdates
	}
	values := updates.ToMap()
	if email, ok := values["email"].(string); ok {
		values["email"] = strings.ToLower(strings.TrimSpace(email))
	}
	return r.db.WithContext(ctx).Model(&entity.DbStore{}).Where("id = ?", id).Updates(values).Error
}

// DeleteStore removes a store and its ratings.
func (r *GormRepository) DeleteStore(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid store id")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", id).Delete(&entity.DbRating{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.DbStore{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// GetStoreIDsByOwner returns the ids of stores owned by ownerID.
func (r *GormRepository) GetStoreIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	ids := make([]uint, 0, 1)
	if err := r.db.WithContext(ctx).Model(&entity.DbStore{}).Where("owner_id = ?", ownerID).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountStores returns total store count.
func (r *GormRepository) CountStores(ctx context.Context) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbStore{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
