package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/desas/internal/core/access"
	coreevent "github.com/example/desas/internal/core/event"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// ReviewServiceImpl implements the ReviewService interface.
type ReviewServiceImpl struct {
	eventRepo  secondary.EventRepository
	reviewRepo secondary.ReviewRepository
	identity   secondary.IdentityProvider
	now        func() time.Time
}

// NewReviewService creates a new ReviewService with injected dependencies.
func NewReviewService(eventRepo secondary.EventRepository, reviewRepo secondary.ReviewRepository, identity secondary.IdentityProvider) *ReviewServiceImpl {
	return &ReviewServiceImpl{
		eventRepo:  eventRepo,
		reviewRepo: reviewRepo,
		identity:   identity,
		now:        time.Now,
	}
}

// AddReview records the calling registrar's review of one of their past events.
func (s *ReviewServiceImpl) AddReview(ctx context.Context, req primary.AddReviewRequest) (*primary.Review, error) {
	who, id, err := authorize(ctx, s.identity, access.RequireAuthenticated)
	if err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, notFound(err, "event %s", req.EventID)
	}
	if err := denied(access.CanReviewEvent(id, access.EventViewContext{
		EventID:     event.ID,
		RegistrarID: event.RegistrarID,
	})); err != nil {
		return nil, err
	}

	rating := req.Rating
	if rating == 0 {
		rating = coreevent.DefaultRating
	}
	guard := coreevent.CanReview(coreevent.ReviewContext{
		EventID:     event.ID,
		Status:      coreevent.Status(event.Status),
		ScheduledAt: event.ScheduledAt,
		Now:         s.now(),
		Rating:      rating,
	})
	if err := invalid(guard.Error()); err != nil {
		return nil, err
	}

	var record *secondary.ReviewRecord
	for attempt := 1; ; attempt++ {
		nextID, err := s.reviewRepo.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate review ID: %w", err)
		}
		record = &secondary.ReviewRecord{
			ID:          nextID,
			EventID:     event.ID,
			RegistrarID: who.UserID,
			Message:     req.Message,
			Rating:      rating,
		}
		err = s.reviewRepo.Create(ctx, record)
		if err == nil {
			break
		}
		if errors.Is(err, secondary.ErrIDTaken) && attempt < maxIDAttempts {
			continue
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	created, err := s.reviewRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created review: %w", err)
	}
	return recordToReview(created), nil
}

// ListReviews lists reviews for any authenticated caller, newest first.
func (s *ReviewServiceImpl) ListReviews(ctx context.Context, filters primary.ReviewFilters) ([]*primary.Review, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanListReviews); err != nil {
		return nil, err
	}

	records, err := s.reviewRepo.List(ctx, secondary.ReviewFilters{
		EventID: filters.EventID,
		Limit:   filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviews := make([]*primary.Review, len(records))
	for i, r := range records {
		reviews[i] = recordToReview(r)
	}
	return reviews, nil
}

func recordToReview(r *secondary.ReviewRecord) *primary.Review {
	return &primary.Review{
		ID:            r.ID,
		EventID:       r.EventID,
		EventName:     r.EventName,
		RegistrarID:   r.RegistrarID,
		RegistrarName: r.RegistrarName,
		Message:       r.Message,
		Rating:        r.Rating,
		CreatedAt:     r.CreatedAt,
	}
}

// Ensure ReviewServiceImpl implements the interface.
var _ primary.ReviewService = (*ReviewServiceImpl)(nil)
