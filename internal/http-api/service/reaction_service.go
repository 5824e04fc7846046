package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"bookhub/internal/http-api/dto"
	"bookhub/internal/http-api/repository"

	"gorm.io/gorm"
)

// ErrRatingStale flags the known consistency gap: the reaction row is
// saved but the book's derived rating could not be recomputed. The two
// writes are not one transaction, so callers see the gap instead of a
// silent lie.
var ErrRatingStale = errors.New("reaction saved but book rating is stale")

type ReactionService interface {
	Get(ctx context.Context, userID string, bookID int64) (*dto.ReactionResponse, error)
	Update(ctx context.Context, userID string, bookID int64, in dto.UpdateReactionDTO) (*dto.ReactionResponse, error)
	RecomputeRating(ctx context.Context, bookID int64) error
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	bookRepo     repository.BookRepository
}

func NewReactionService(reactionRepo repository.ReactionRepository, bookRepo repository.BookRepository) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		bookRepo:     bookRepo,
	}
}

// Get returns the caller's reaction for the book, creating the default row
// on first access. Both calls for the same pair land on the same row.
func (s *reactionService) Get(ctx context.Context, userID string, bookID int64) (*dto.ReactionResponse, error) {
	if err := s.ensureBookExists(ctx, bookID); err != nil {
		return nil, err
	}

	reaction, _, err := s.reactionRepo.GetOrCreate(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReactionResponse(reaction), nil
}

// Update applies a partial update to the caller's reaction and then
// recomputes the book's rating, in that order, before returning. The
// recompute is a plain function call in the write path rather than a
// persistence hook.
func (s *reactionService) Update(ctx context.Context, userID string, bookID int64, in dto.UpdateReactionDTO) (*dto.ReactionResponse, error) {
	if err := s.ensureBookExists(ctx, bookID); err != nil {
		return nil, err
	}

	reaction, _, err := s.reactionRepo.GetOrCreate(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	in.ApplyTo(reaction)
	if err := s.reactionRepo.Save(ctx, reaction); err != nil {
		return nil, err
	}

	if err := s.RecomputeRating(ctx, bookID); err != nil {
		return dto.FromModelToReactionResponse(reaction), fmt.Errorf("%w: %v", ErrRatingStale, err)
	}

	return dto.FromModelToReactionResponse(reaction), nil
}

// RecomputeRating derives the book's rating from its rated reactions: the
// mean rate rounded to two decimals, or NULL when nothing is rated yet.
// One aggregate read, one column write.
func (s *reactionService) RecomputeRating(ctx context.Context, bookID int64) error {
	avg, err := s.reactionRepo.AverageRate(ctx, bookID)
	if err != nil {
		return err
	}

	if avg != nil {
		rounded := roundRating(*avg)
		avg = &rounded
	}
	return s.bookRepo.UpdateRating(ctx, bookID, avg)
}

func (s *reactionService) ensureBookExists(ctx context.Context, bookID int64) error {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}
	return nil
}

// roundRating rounds half away from zero to two fractional digits.
func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
