package service

import (
	"context"
	"errors"
	"storerating/internal/entity"
	"storerating/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
)

// StoreOwnerService covers a store owner's own store and its ratings.
type StoreOwnerService struct {
	repo model.Repository
}

// NewStoreOwnerService creates the store-owner service.
func NewStoreOwnerService(repo model.Repository) *StoreOwnerService {
	return &StoreOwnerService{repo: repo}
}

// Dashboard returns the owner's store with its ratings, or HasStore=false.
func (s *StoreOwnerService) Dashboard(ctx context.Context, ownerID uint) (*entity.StoreOwnerDashboard, error) {
	ids, err := s.repo.GetStoreIDsByOwner(ctx, ownerID)
	if err != nil {
		return nil, internalError("load owner stores", err)
	}
	if len(ids) == 0 {
		return &entity.StoreOwnerDashboard{HasStore: false}, nil
	}

	store, err := loadStore(ctx, s.repo, ids[0])
	if err != nil {
		return nil, err
	}
	ratings, err := s.repo.ListRatingsForStore(ctx, store.ID)
	if err != nil {
		return nil, internalError("list store ratings", err)
	}
	return &entity.StoreOwnerDashboard{
		HasStore:      true,
		Store:         store,
		Ratings:       ratings,
		TotalRatings:  len(ratings),
		AverageRating: store.AverageRating,
	}, nil
}

// CreateStore creates the owner's only store. Its email is the owner's login email.
func (s *StoreOwnerService) CreateStore(ctx context.Context, ownerID uint, req entity.OwnerStoreCreateRequest) (*entity.DbStore, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Address = strings.TrimSpace(req.Address)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	owner, err := loadUser(ctx, s.repo, ownerID)
	if err != nil {
		return nil, err
	}

	store := &entity.DbStore{
		Name:    req.Name,
		Email:   owner.Email,
		Address: req.Address,
		OwnerID: owner.ID,
	}
	if err := s.repo.CreateOwnedStore(ctx, store); err != nil {
		if errors.Is(err, model.ErrOwnerHasStore) {
			return nil, ErrOwnerStoreExists
		}
		return nil, storeWriteError("create store", err)
	}
	logrus.WithFields(logrus.Fields{"store_id": store.ID, "owner_id": owner.ID}).Info("store owner created store")
	return loadStore(ctx, s.repo, store.ID)
}

// UpdateStore changes name or address of a store the caller owns.
func (s *StoreOwnerService) UpdateStore(ctx context.Context, ownerID, storeID uint, req entity.OwnerStoreUpdateRequest) (*entity.DbStore, error) {
	req.Name = trimPtr(req.Name)
	req.Address = trimPtr(req.Address)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	store, err := loadStore(ctx, s.repo, storeID)
	if err != nil {
		return nil, err
	}
	if store.OwnerID != ownerID {
		return nil, ErrNotStoreOwner
	}
	updates := entity.StoreUpdates{Name: req.Name, Address: req.Address}
	if updates.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}
	if err := s.repo.UpdateStore(ctx, store.ID, updates); err != nil {
		return nil, storeWriteError("update store", err)
	}
	logrus.WithFields(logrus.Fields{"store_id": store.ID, "owner_id": ownerID}).Info("store owner updated store")
	return loadStore(ctx, s.repo, store.ID)
}
