package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookhub/internal/http-api/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

type ReactionRepository interface {
	GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Reaction, error)
	GetOrCreate(ctx context.Context, userID string, bookID int64) (*models.Reaction, bool, error)
	Save(ctx context.Context, reaction *models.Reaction) error
	AverageRate(ctx context.Context, bookID int64) (*float64, error)
	CountLikes(ctx context.Context, bookID int64) (int64, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

// GetByUserAndBook retrieves a user's reaction for a specific book
func (r *reactionRepository) GetByUserAndBook(ctx context.Context, userID string, bookID int64) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Preload("User").
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// GetOrCreate returns the (user, book) reaction, inserting a default row
// when none exists yet. The boolean reports whether a row was created.
// Two concurrent first-time requests both try the insert; the loser hits
// the unique (user_id, book_id) index and re-reads the winner's row, so
// the pair never gets a duplicate.
func (r *reactionRepository) GetOrCreate(ctx context.Context, userID string, bookID int64) (*models.Reaction, bool, error) {
	existing, err := r.GetByUserAndBook(ctx, userID, bookID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	reaction := &models.Reaction{
		UserID: userID,
		BookID: bookID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(reaction).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			winner, readErr := r.GetByUserAndBook(ctx, userID, bookID)
			if readErr != nil {
				return nil, false, readErr
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("create reaction: %w", err)
	}

	// Reload with user data
	created, err := r.GetByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (r *reactionRepository) Save(ctx context.Context, reaction *models.Reaction) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(reaction).Error; err != nil {
		return fmt.Errorf("save reaction: %w", err)
	}
	return nil
}

// AverageRate computes the mean rate over the book's rated reactions.
// NULL rates never enter the aggregate; nil comes back when no reaction
// has a rate at all.
func (r *reactionRepository) AverageRate(ctx context.Context, bookID int64) (*float64, error) {
	var row struct {
		Average sql.NullFloat64
	}

	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("AVG(rate) AS average").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("average rate: %w", err)
	}

	if !row.Average.Valid {
		return nil, nil
	}
	avg := row.Average.Float64
	return &avg, nil
}

// CountLikes counts the liked reactions for a book
func (r *reactionRepository) CountLikes(ctx context.Context, bookID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Where(`book_id = ? AND "like"`, bookID).
		Count(&count).Error
	return count, err
}
