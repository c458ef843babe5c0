package model

import (
	"context"
	"storerating/internal/entity"
	"storerating/internal/model/sql"
	"time"
)

// Sentinels returned by the repository alongside gorm.ErrRecordNotFound and
// gorm.ErrDuplicatedKey.
var (
	ErrNoUpdates        = sql.ErrNoUpdates
	ErrOwnerHasStore    = sql.ErrOwnerHasStore
	ErrOwnerNotEligible = sql.ErrOwnerNotEligible
)

var _ Repository = (*sql.GormRepository)(nil)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	UpdateUserPassword(ctx context.Context, id uint, passwordHash string) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context, filter entity.UserFilter, sort entity.SortOrder) ([]entity.DbUser, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// 商店
	CreateStore(ctx context.Context, store *entity.DbStore) error
	CreateStoreWithOwner(ctx context.Context, store *entity.DbStore, owner *entity.DbUser) (created bool, err error)
	CreateOwnedStore(ctx context.Context, store *entity.DbStore) error
	GetStoreByID(ctx context.Context, id uint) (*entity.DbStore, error)
	ListStores(ctx context.Context, filter entity.StoreFilter, sort entity.SortOrder) ([]entity.DbStore, error)
	UpdateStore(ctx context.Context, id uint, updates entity.StoreUpdates) error
	DeleteStore(ctx context.Context, id uint) error
	GetStoreIDsByOwner(ctx context.Context, ownerID uint) ([]uint, error)
	CountStores(ctx context.Context) (int64, error)

	// 评分
	GetRatingByUserAndStore(ctx context.Context, userID, storeID uint) (*entity.DbRating, error)
	CreateRating(ctx context.Context, rating *entity.DbRating) error
	UpdateRating(ctx context.Context, userID, storeID uint, value int, comment *string) (*entity.DbRating, error)
	UpsertRating(ctx context.Context, rating *entity.DbRating) (created bool, err error)
	GetStoreAverageRating(ctx context.Context, storeID uint) (float64, error)
	ListRatingsForStore(ctx context.Context, storeID uint) ([]entity.RatingWithUser, error)
	GetUserRatingsForStores(ctx context.Context, userID uint, storeIDs []uint) (map[uint]entity.DbRating, error)
	CountRatings(ctx context.Context) (int64, error)

	// 密码重置
	CreatePasswordReset(ctx context.Context, reset *entity.DbPasswordReset) error
	GetPasswordResetByToken(ctx context.Context, token string) (*entity.DbPasswordReset, error)
	DeletePasswordResetByID(ctx context.Context, id uint) error
	DeletePasswordResetByToken(ctx context.Context, token string) error
	DeleteExpiredPasswordResets(ctx context.Context, now time.Time) (int64, error)
	ConsumePasswordReset(ctx context.Context, resetID, userID uint, passwordHash string) error
}
