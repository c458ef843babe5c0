package sql

import (
	"errors"
	"fmt"
	"storerating/internal/entity"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNoUpdates is returned by partial updates when no recognised field was supplied.
	ErrNoUpdates = errors.New("no updatable fields provided")
	// ErrOwnerHasStore is returned when an owner already owns a store.
	ErrOwnerHasStore = errors.New("owner already has a store")
	// ErrOwnerNotEligible is returned when an existing account cannot own a new store.
	ErrOwnerNotEligible = errors.New("user cannot own this store")
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// averageRatingSQL is the only place the store rating aggregate is defined.
// The argument is the SQL expression identifying the store.
func averageRatingSQL(storeRef string) string {
	return fmt.Sprintf("(SELECT COALESCE(ROUND(AVG(ratings.rating), 2), 0) FROM ratings WHERE ratings.store_id = %s)", storeRef)
}

// sortColumns maps a logical sort field to a fixed column reference.
type sortColumns map[string]clause.Column

var userSortColumns = sortColumns{
	"name":       {Table: "users", Name: "name"},
	"email":      {Table: "users", Name: "email"},
	"address":    {Table: "users", Name: "address"},
	"role":       {Table: "users", Name: "role"},
	"created_at": {Table: "users", Name: "created_at"},
}

var storeSortColumns = sortColumns{
	"name":           {Table: "stores", Name: "name"},
	"email":          {Table: "stores", Name: "email"},
	"address":        {Table: "stores", Name: "address"},
	"average_rating": {Name: "average_rating", Raw: true},
}

// apply adds ORDER BY for a known field and leaves the query untouched otherwise.
func (s sortColumns) apply(query *gorm.DB, order entity.SortOrder) *gorm.DB {
	column, ok := s[strings.ToLower(order.Field)]
	if !ok {
		return query
	}
	return query.Order(clause.OrderByColumn{Column: column, Desc: order.Desc})
}

// whereContains adds a case-insensitive substring match when value is non-empty.
// column must come from code, never from a request.
func whereContains(query *gorm.DB, column, value string) *gorm.DB {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return query
	}
	return query.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(trimmed)+"%")
}
