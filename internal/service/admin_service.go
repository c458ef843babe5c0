package service

import (
	"context"
	"errors"
	"storerating/internal/auth"
	"storerating/internal/config"
	"storerating/internal/entity"
	"storerating/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AdminService implements the administrator operations over users and stores.
type AdminService struct {
	repo                   model.Repository
	storeOwnerTempPassword string
}

// NewAdminService creates the admin service.
func NewAdminService(repo model.Repository, cfg config.Config) *AdminService {
	return &AdminService{
		repo:                   repo,
		storeOwnerTempPassword: cfg.StoreOwnerTempPassword,
	}
}

// Dashboard returns global user, store and rating totals.
func (s *AdminService) Dashboard(ctx context.Context) (*entity.DashboardSummary, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, internalError("count users", err)
	}
	stores, err := s.repo.CountStores(ctx)
	if err != nil {
		return nil, internalError("count stores", err)
	}
	ratings, err := s.repo.CountRatings(ctx)
	if err != nil {
		return nil, internalError("count ratings", err)
	}
	return &entity.DashboardSummary{
		TotalUsers:   users,
		TotalStores:  stores,
		TotalRatings: ratings,
	}, nil
}

// CreateUser creates an account of any role.
func (s *AdminService) CreateUser(ctx context.Context, req entity.UserCreateRequest) (*entity.UserSummary, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	role, _ := entity.ParseRole(req.Role)

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("lookup user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("hash password", err)
	}
	user := &entity.DbUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, internalError("create user", err)
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("admin created user")
	summary := user.ToSummary()
	return &summary, nil
}

// ListUsers filters and sorts users. An unknown role filter matches nobody.
func (s *AdminService) ListUsers(ctx context.Context, query entity.UserListQuery) ([]entity.UserSummary, error) {
	filter := entity.UserFilter{
		Name:    strings.TrimSpace(query.Name),
		Email:   strings.TrimSpace(query.Email),
		Address: strings.TrimSpace(query.Address),
	}
	if raw := strings.TrimSpace(query.Role); raw != "" {
		role, ok := entity.ParseRole(raw)
		if !ok {
			return []entity.UserSummary{}, nil
		}
		filter.Role = role
	}

	users, err := s.repo.ListUsers(ctx, filter, entity.DefaultSortOrder(query.SortBy, query.SortDir))
	if err != nil {
		return nil, internalError("list users", err)
	}
	summaries := make([]entity.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].ToSummary())
	}
	return summaries, nil
}

// GetUser returns a user; store owners with a store also get its average rating.
func (s *AdminService) GetUser(ctx context.Context, id uint) (*entity.UserDetail, error) {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &entity.UserDetail{UserSummary: user.ToSummary()}
	if user.Role != entity.RoleStoreOwner {
		return detail, nil
	}

	storeIDs, err := s.repo.GetStoreIDsByOwner(ctx, user.ID)
	if err != nil {
		return nil, internalError("load owner stores", err)
	}
	if len(storeIDs) == 0 {
		return detail, nil
	}
	average, err := s.repo.GetStoreAverageRating(ctx, storeIDs[0])
	if err != nil {
		return nil, internalError("load store rating", err)
	}
	detail.AverageRating = &average
	return detail, nil
}

// UpdateUser applies a partial update. Setting the password of an admin
// account rejects the whole request.
func (s *AdminService) UpdateUser(ctx context.Context, id uint, req entity.UserUpdateRequest) (*entity.UserSummary, error) {
	req.Name = trimPtr(req.Name)
	req.Address = trimPtr(req.Address)
	req.Role = trimPtr(req.Role)
	req.Password = blankToNil(req.Password)
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	updates := entity.UserUpdates{Name: req.Name, Email: req.Email, Address: req.Address}
	if req.Role != nil {
		role, _ := entity.ParseRole(*req.Role)
		updates.Role = &role
	}
	if updates.IsEmpty() && req.Password == nil {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.loadUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Password != nil && user.Role == entity.RoleAdmin {
		return nil, ErrAdminPasswordChange
	}

	if req.Email != nil && *req.Email != user.Email {
		if _, err := s.repo.GetUserByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internalError("lookup user", err)
		}
	}

	if !updates.IsEmpty() {
		if err := s.repo.UpdateUser(ctx, user.ID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrEmailTaken
			}
			return nil, internalError("update user", err)
		}
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, internalError("hash password", err)
		}
		if err := s.repo.UpdateUserPassword(ctx, user.ID, hash); err != nil {
			return nil, internalError("update password", err)
		}
	}

	updated, err := s.loadUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	logrus.WithField("user_id", updated.ID).Info("admin updated user")
	summary := updated.ToSummary()
	return &summary, nil
}

// DeleteUser removes a non-admin user and everything that hangs off it.
func (s *AdminService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.loadUser(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == entity.RoleAdmin {
		return ErrAdminDelete
	}
	if err := s.repo.DeleteUser(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return internalError("delete user", err)
	}
	logrus.WithField("user_id", user.ID).Info("admin deleted user")
	return nil
}

// CreateStore creates a store, provisioning a store-owner account for the
// store email with the temporary password when none exists.
func (s *AdminService) CreateStore(ctx context.Context, req entity.StoreCreateRequest) (*entity.DbStore, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(s.storeOwnerTempPassword)
	if err != nil {
		return nil, internalError("hash temporary password", err)
	}
	owner := &entity.DbUser{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Address:      req.Address,
		Role:         entity.RoleStoreOwner,
	}
	store := &entity.DbStore{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	}

	created, err := s.repo.CreateStoreWithOwner(ctx, store, owner)
	if err != nil {
		return nil, storeWriteError("create store", err)
	}
	if created {
		logrus.WithFields(logrus.Fields{"user_id": owner.ID, "email": owner.Email}).Info("provisioned store owner account")
	}
	logrus.WithFields(logrus.Fields{"store_id": store.ID, "owner_id": owner.ID}).Info("admin created store")
	return s.loadStore(ctx, store.ID)
}

// ListStores filters and sorts stores with their average ratings.
func (s *AdminService) ListStores(ctx context.Context, query entity.StoreListQuery) ([]entity.DbStore, error) {
	filter := entity.StoreFilter{
		Name:    strings.TrimSpace(query.Name),
		Email:   strings.TrimSpace(query.Email),
		Address: strings.TrimSpace(query.Address),
	}
	stores, err := s.repo.ListStores(ctx, filter, entity.DefaultSortOrder(query.SortBy, query.SortDir))
	if err != nil {
		return nil, internalError("list stores", err)
	}
	return stores, nil
}

// GetStore returns one store with its average rating.
func (s *AdminService) GetStore(ctx context.Context, id uint) (*entity.DbStore, error) {
	return s.loadStore(ctx, id)
}

// UpdateStore applies a partial update. A new owner must be an existing
// store owner without a store.
func (s *AdminService) UpdateStore(ctx context.Context, id uint, req entity.StoreUpdateRequest) (*entity.DbStore, error) {
	req.Name = trimPtr(req.Name)
	req.Address = trimPtr(req.Address)
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	updates := entity.StoreUpdates{Name: req.Name, Email: req.Email, Address: req.Address, OwnerID: req.OwnerID}
	if updates.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	store, err := s.loadStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.OwnerID != nil && *req.OwnerID != store.OwnerID {
		if err := s.checkNewOwner(ctx, *req.OwnerID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateStore(ctx, store.ID, updates); err != nil {
		return nil, storeWriteError("update store", err)
	}
	logrus.WithField("store_id", store.ID).Info("admin updated store")
	return s.loadStore(ctx, store.ID)
}

// DeleteStore removes a store and its ratings.
func (s *AdminService) DeleteStore(ctx context.Context, id uint) error {
	if err := s.repo.DeleteStore(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return internalError("delete store", err)
	}
	logrus.WithField("store_id", id).Info("admin deleted store")
	return nil
}

func (s *AdminService) checkNewOwner(ctx context.Context, ownerID uint) error {
	owner, err := s.repo.GetUserByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return validationError(map[string]string{"owner_id": "owner_id does not reference an existing user"})
		}
		return internalError("load owner", err)
	}
	if owner.Role != entity.RoleStoreOwner {
		return ErrOwnerNotEligible
	}
	owned, err := s.repo.GetStoreIDsByOwner(ctx, owner.ID)
	if err != nil {
		return internalError("load owner stores", err)
	}
	if len(owned) > 0 {
		return ErrOwnerAlreadyHasStore
	}
	return nil
}

func (s *AdminService) loadUser(ctx context.Context, id uint) (*entity.DbUser, error) {
	return loadUser(ctx, s.repo, id)
}

func (s *AdminService) loadStore(ctx context.Context, id uint) (*entity.DbStore, error) {
	return loadStore(ctx, s.repo, id)
}

func loadUser(ctx context.Context, repo model.Repository, id uint) (*entity.DbUser, error) {
	user, err := repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("load user", err)
	}
	return user, nil
}

func loadStore(ctx context.Context, repo model.Repository, id uint) (*entity.DbStore, error) {
	store, err := repo.GetStoreByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, internalError("load store", err)
	}
	return store, nil
}

// storeWriteError maps repository errors from store inserts and updates.
func storeWriteError(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrOwnerHasStore):
		return ErrOwnerAlreadyHasStore
	case errors.Is(err, model.ErrOwnerNotEligible):
		return ErrOwnerNotEligible
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrStoreExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrStoreNotFound
	default:
		return internalError(op, err)
	}
}
