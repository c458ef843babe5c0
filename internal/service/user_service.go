package service

import (
	"context"
	"storerating/internal/entity"
	"storerating/internal/metrics"
	"storerating/internal/model"
	"strings"

	"github.com/sirupsen/logrus"
)

// UserService covers what a normal user can do: browse stores and rate them.
type UserService struct {
	repo model.Repository
}

// NewUserService creates the normal-user service.
func NewUserService(repo model.Repository) *UserService {
	return &UserService{repo: repo}
}

// ListStores returns stores whose name contains query.Search, each with the
// caller's own rating when they have one.
func (s *UserService) ListStores(ctx context.Context, userID uint, query entity.StoreSearchQuery) ([]entity.UserStoreView, error) {
	filter := entity.StoreFilter{Name: strings.TrimSpace(query.Search)}
	stores, err := s.repo.ListStores(ctx, filter, entity.DefaultSortOrder(query.SortBy, query.SortDir))
	if err != nil {
		return nil, internalError("list stores", err)
	}

	ids := make([]uint, 0, len(stores))
	for _, store := range stores {
		ids = append(ids, store.ID)
	}
	mine, err := s.repo.GetUserRatingsForStores(ctx, userID, ids)
	if err != nil {
		return nil, internalError("load user ratings", err)
	}

	views := make([]entity.UserStoreView, 0, len(stores))
	for _, store := range stores {
		view := entity.UserStoreView{DbStore: store}
		if rating, ok := mine[store.ID]; ok {
			value := rating.Rating
			view.UserRating = &value
			view.UserComment = rating.Comment
		}
		views = append(views, view)
	}
	return views, nil
}

// SubmitRating creates or replaces the caller's rating of a store. created
// reports whether this was the first rating for the pair.
func (s *UserService) SubmitRating(ctx context.Context, userID, storeID uint, req entity.RatingSubmitRequest) (*entity.DbRating, bool, error) {
	req.Comment = blankToNil(req.Comment)
	if err := validateRequest(req); err != nil {
		return nil, false, err
	}
	if _, err := loadStore(ctx, s.repo, storeID); err != nil {
		return nil, false, err
	}

	rating := &entity.DbRating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	created, err := s.repo.UpsertRating(ctx, rating)
	if err != nil {
		return nil, false, internalError("save rating", err)
	}

	metrics.ObserveRating(created)
	logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"store_id": storeID,
		"rating":   rating.Rating,
		"created":  created,
	}).Info("rating submitted")
	return rating, created, nil
}
