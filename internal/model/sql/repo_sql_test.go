package sql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"storerating/internal/entity"
	"storerating/internal/model"
	"storerating/internal/model/modeltest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUser(t *testing.T, repo model.Repository, email string, role entity.Role) *entity.DbUser {
	t.Helper()
	user := &entity.DbUser{Name: "Repository test user " + email, Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func newStore(t *testing.T, repo model.Repository, owner *entity.DbUser, name, email string) *entity.DbStore {
	t.Helper()
	store := &entity.DbStore{Name: name, Email: email, Address: "Somewhere 1", OwnerID: owner.ID}
	require.NoError(t, repo.CreateOwnedStore(context.Background(), store))
	return store
}

func TestUserEmailIsCaseInsensitiveAndUnique(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	newUser(t, repo, "Case@Example.com", entity.RoleNormalUser)

	found, err := repo.GetUserByEmail(ctx, "CASE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "case@example.com", found.Email)

	err = repo.CreateUser(ctx, &entity.DbUser{Name: "dup", Email: "case@EXAMPLE.com", PasswordHash: "h", Role: entity.RoleAdmin})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = repo.GetUserByEmail(ctx, "  ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateUserRequiresFields(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	user := newUser(t, repo, "u@example.com", entity.RoleNormalUser)

	assert.ErrorIs(t, repo.UpdateUser(ctx, user.ID, entity.UserUpdates{}), model.ErrNoUpdates)

	address := "New Address 5"
	require.NoError(t, repo.UpdateUser(ctx, user.ID, entity.UserUpdates{Address: &address}))
	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, address, stored.Address)
	assert.Equal(t, "hash", stored.PasswordHash)

	assert.ErrorIs(t, repo.UpdateUserPassword(ctx, 9999, "x"), gorm.ErrRecordNotFound)
}

func TestStoreAverageRatingFormula(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	owner := newUser(t, repo, "owner@example.com", entity.RoleStoreOwner)
	store := newStore(t, repo, owner, "Average Store", "avg@example.com")

	avg, err := repo.GetStoreAverageRating(ctx, store.ID)
	require.NoError(t, err)
	assert.Zero(t, avg)

	for i, value := range []int{5, 4, 4} {
		rater := newUser(t, repo, "r"+string(rune('a'+i))+"@example.com", entity.RoleNormalUser)
		_, err := repo.UpsertRating(ctx, &entity.DbRating{UserID: rater.ID, StoreID: store.ID, Rating: value})
		require.NoError(t, err)
	}

	avg, err = repo.GetStoreAverageRating(ctx, store.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.33, avg, 0.0001)

	loaded, err := repo.GetStoreByID(ctx, store.ID)
	require.NoError(t, err)
	assert.InDelta(t, avg, loaded.AverageRating, 0.0001)
}

func TestUpsertRatingKeepsOneRowPerPair(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	owner := newUser(t, repo, "owner@example.com", entity.RoleStoreOwner)
	rater := newUser(t, repo, "rater@example.com", entity.RoleNormalUser)
	store := newStore(t, repo, owner, "Upsert Store", "upsert@example.com")

	first := &entity.DbRating{UserID: rater.ID, StoreID: store.ID, Rating: 1}
	created, err := repo.UpsertRating(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)

	comment := "better now"
	second := &entity.DbRating{UserID: rater.ID, StoreID: store.ID, Rating: 5, Comment: &comment}
	created, err = repo.UpsertRating(ctx, second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)

	count, err := repo.CountRatings(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	mine, err := repo.GetUserRatingsForStores(ctx, rater.ID, []uint{store.ID, store.ID + 1})
	require.NoError(t, err)
	require.Contains(t, mine, store.ID)
	assert.Equal(t, "better now", *mine[store.ID].Comment)
	assert.Len(t, mine, 1)
}

func TestCreateOwnedStoreAllowsOnePerOwner(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	owner := newUser(t, repo, "owner@example.com", entity.RoleStoreOwner)
	newStore(t, repo, owner, "First Store", "first@example.com")

	err := repo.CreateOwnedStore(ctx, &entity.DbStore{Name: "Second Store", Email: "second@example.com", Address: "x", OwnerID: owner.ID})
	assert.ErrorIs(t, err, model.ErrOwnerHasStore)

	err = repo.CreateOwnedStore(ctx, &entity.DbStore{Name: "Orphan", Email: "orphan@example.com", Address: "x", OwnerID: 9999})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateStoreWithOwner(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()

	store := &entity.DbStore{Name: "Provisioned", Email: "NEW@example.com", Address: "x"}
	owner := &entity.DbUser{Name: "Provisioned", Email: "new@example.com", PasswordHash: "temp"}
	created, err := repo.CreateStoreWithOwner(ctx, store, owner)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RoleStoreOwner, owner.Role)
	assert.Equal(t, owner.ID, store.OwnerID)
	assert.Equal(t, "new@example.com", store.Email)

	newUser(t, repo, "shopper@example.com", entity.RoleNormalUser)
	_, err = repo.CreateStoreWithOwner(ctx,
		&entity.DbStore{Name: "Nope", Email: "shopper@example.com", Address: "x"},
		&entity.DbUser{Name: "Nope", Email: "shopper@example.com", PasswordHash: "temp"})
	assert.ErrorIs(t, err, model.ErrOwnerNotEligible)

	// a failed store insert must not leave the provisioned owner behind
	_, err = repo.CreateStoreWithOwner(ctx,
		&entity.DbStore{Name: "Clash", Email: "new@example.com", Address: "x"},
		&entity.DbUser{Name: "Clash", Email: "someone-else@example.com", PasswordHash: "temp"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	_, err = repo.GetUserByEmail(ctx, "someone-else@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListStoresFilterAndSort(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	a := newStore(t, repo, newUser(t, repo, "a@example.com", entity.RoleStoreOwner), "Apple Corner", "apple@example.com")
	b := newStore(t, repo, newUser(t, repo, "b@example.com", entity.RoleStoreOwner), "Banana Stand", "banana@example.com")
	rater := newUser(t, repo, "r@example.com", entity.RoleNormalUser)
	_, err := repo.UpsertRating(ctx, &entity.DbRating{UserID: rater.ID, StoreID: a.ID, Rating: 2})
	require.NoError(t, err)
	_, err = repo.UpsertRating(ctx, &entity.DbRating{UserID: rater.ID, StoreID: b.ID, Rating: 3})
	require.NoError(t, err)

	stores, err := repo.ListStores(ctx, entity.StoreFilter{}, entity.NewSortOrder("average_rating", "desc"))
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, b.ID, stores[0].ID)

	stores, err = repo.ListStores(ctx, entity.StoreFilter{Name: "corn"}, entity.NewSortOrder("name", "asc"))
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, a.ID, stores[0].ID)

	stores, err = repo.ListStores(ctx, entity.StoreFilter{}, entity.NewSortOrder("1; DROP TABLE stores", "asc"))
	require.NoError(t, err)
	assert.Len(t, stores, 2)
}

func TestDeleteUserCascades(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	owner := newUser(t, repo, "owner@example.com", entity.RoleStoreOwner)
	rater := newUser(t, repo, "rater@example.com", entity.RoleNormalUser)
	store := newStore(t, repo, owner, "Doomed Store", "doomed@example.com")
	other := newStore(t, repo, newUser(t, repo, "other@example.com", entity.RoleStoreOwner), "Other Store", "other-store@example.com")
	_, err := repo.UpsertRating(ctx, &entity.DbRating{UserID: rater.ID, StoreID: store.ID, Rating: 4})
	require.NoError(t, err)
	_, err = repo.UpsertRating(ctx, &entity.DbRating{UserID: rater.ID, StoreID: other.ID, Rating: 4})
	require.NoError(t, err)
	require.NoError(t, repo.CreatePasswordReset(ctx, &entity.DbPasswordReset{UserID: rater.ID, Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}))

	require.NoError(t, repo.DeleteUser(ctx, owner.ID))
	_, err = repo.GetStoreByID(ctx, store.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	count, err := repo.CountRatings(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.DeleteUser(ctx, rater.ID))
	count, err = repo.CountRatings(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, err = repo.GetPasswordResetByToken(ctx, "tok")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, repo.DeleteUser(ctx, rater.ID), gorm.ErrRecordNotFound)
}

func TestConsumePasswordResetIsSingleUse(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	user := newUser(t, repo, "reset@example.com", entity.RoleNormalUser)
	reset := &entity.DbPasswordReset{UserID: user.ID, Token: "single", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.CreatePasswordReset(ctx, reset))

	require.NoError(t, repo.ConsumePasswordReset(ctx, reset.ID, user.ID, "new-hash"))
	err := repo.ConsumePasswordReset(ctx, reset.ID, user.ID, "second-hash")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stored, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", stored.PasswordHash)
}

func TestDeleteExpiredPasswordResets(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	user := newUser(t, repo, "reset@example.com", entity.RoleNormalUser)
	now := time.Now()
	require.NoError(t, repo.CreatePasswordReset(ctx, &entity.DbPasswordReset{UserID: user.ID, Token: "a", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, repo.CreatePasswordReset(ctx, &entity.DbPasswordReset{UserID: user.ID, Token: "b", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.CreatePasswordReset(ctx, &entity.DbPasswordReset{UserID: user.ID, Token: "c", ExpiresAt: now.Add(time.Hour)}))

	removed, err := repo.DeleteExpiredPasswordResets(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	err = repo.CreatePasswordReset(ctx, &entity.DbPasswordReset{UserID: 0, Token: "x"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestPlainCreateAndUpdatePaths(t *testing.T) {
	repo := modeltest.NewRepository(t)
	ctx := context.Background()
	owner := newUser(t, repo, "plain-owner@example.com", entity.RoleStoreOwner)
	rater := newUser(t, repo, "plain-rater@example.com", entity.RoleNormalUser)

	store := &entity.DbStore{Name: "Plain Store", Email: " Plain@Example.com ", Address: "Main St 1", OwnerID: owner.ID}
	require.NoError(t, repo.CreateStore(ctx, store))
	assert.Equal(t, "plain@example.com", store.Email)

	_, err := repo.GetRatingByUserAndStore(ctx, rater.ID, store.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.CreateRating(ctx, &entity.DbRating{UserID: rater.ID, StoreID: store.ID, Rating: 2}))
	comment := "better now"
	updated, err := repo.UpdateRating(ctx, rater.ID, store.ID, 5, &comment)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, comment, *updated.Comment)

	found, err := repo.GetRatingByUserAndStore(ctx, rater.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, found.ID)

	require.NoError(t, repo.CreatePasswordReset(ctx, &entity.DbPasswordReset{UserID: rater.ID, Token: "by-token", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.DeletePasswordResetByToken(ctx, "by-token"))
	_, err = repo.GetPasswordResetByToken(ctx, "by-token")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
