package model

import (
	"context"
	"errors"
	"fmt"
	"storerating/internal/auth"
	"storerating/internal/config"
	"storerating/internal/entity"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SampleDataPassword is the password shared by every seeded sample account.
const SampleDataPassword = "TestPass123!"

const sampleUsersPerRole = 3

// EnsureAdmin creates the bootstrap admin from configuration when it does not exist yet.
func EnsureAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || strings.TrimSpace(cfg.AdminPassword) == "" {
		return nil
	}

	_, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin := &entity.DbUser{
		Name:         strings.TrimSpace(cfg.AdminName),
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
	}
	if err := repo.CreateUser(ctx, admin); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	logrus.WithField("email", email).Info("bootstrap admin created")
	return nil
}

// SeedSampleData creates three users per role, one store per store owner and
// one rating per store from the first normal user. Existing rows are left alone.
func SeedSampleData(ctx context.Context, repo Repository) error {
	if repo == nil {
		return nil
	}

	hash, err := auth.HashPassword(SampleDataPassword)
	if err != nil {
		return err
	}

	for _, role := range entity.AllRoles {
		for i := 1; i <= sampleUsersPerRole; i++ {
			if err := seedUser(ctx, repo, role, i, hash); err != nil {
				return err
			}
		}
	}

	owners, err := repo.ListUsers(ctx, entity.UserFilter{Role: entity.RoleStoreOwner}, entity.SortOrder{Field: "email"})
	if err != nil {
		return err
	}
	raters, err := repo.ListUsers(ctx, entity.UserFilter{Role: entity.RoleNormalUser}, entity.SortOrder{Field: "email"})
	if err != nil {
		return err
	}

	for idx := range owners {
		storeID, err := seedStore(ctx, repo, &owners[idx], idx+1)
		if err != nil {
			return err
		}
		if storeID == 0 || len(raters) == 0 {
			continue
		}
		rating := &entity.DbRating{
			UserID:  raters[0].ID,
			StoreID: storeID,
			Rating:  idx%entity.MaxRating + 1,
		}
		if _, err := repo.GetRatingByUserAndStore(ctx, rating.UserID, storeID); err == nil {
			continue
		}
		if err := repo.CreateRating(ctx, rating); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return nil
}

func seedUser(ctx context.Context, repo Repository, role entity.Role, n int, hash string) error {
	email := fmt.Sprintf("%s%d@example.com", role, n)
	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	label := strings.ReplaceAll(string(role), "_", " ")
	user := &entity.DbUser{
		Name:         fmt.Sprintf("Sample %s account number %d", label, n),
		Email:        email,
		PasswordHash: hash,
		Address:      "Seed address for " + email,
		Role:         role,
	}
	if err := repo.CreateUser(ctx, user); err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	logrus.WithFields(logrus.Fields{"email": email, "role": role}).Info("seeded user")
	return nil
}

// seedStore returns the id of the owner's store, creating it when missing.
func seedStore(ctx context.Context, repo Repository, owner *entity.DbUser, n int) (uint, error) {
	ids, err := repo.GetStoreIDsByOwner(ctx, owner.ID)
	if err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}

	store := &entity.DbStore{
		Name:    fmt.Sprintf("Sample Store Number %d of the Seed", n),
		Email:   fmt.Sprintf("store%d@example.com", n),
		Address: "123 Sample St - " + owner.Email,
		OwnerID: owner.ID,
	}
	if err := repo.CreateOwnedStore(ctx, store); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrOwnerHasStore) {
			return 0, nil
		}
		return 0, err
	}
	logrus.WithFields(logrus.Fields{"store": store.Email, "owner": owner.Email}).Info("seeded store")
	return store.ID, nil
}
