package repository

import (
	"context"
	"fmt"
	"strings"

	"bookhub/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListQuery carries the supported listing parameters. Zero values mean
// "not requested"; price uses a pointer so 0.00 stays a valid filter.
type ListQuery struct {
	Price    *float64
	Search   string
	Ordering string
}

type BookRepository interface {
	List(ctx context.Context, q ListQuery) ([]models.AnnotatedBook, error)
	GetByID(ctx context.Context, id int64) (*models.AnnotatedBook, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	UpdateRating(ctx context.Context, id int64, rating *float64) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// annotated builds the shared listing/detail select: one grouped query over
// books LEFT JOIN reactions producing the like count and the live average
// rate alongside every book column. Owner and reader rows come in through
// preloads, so the whole result set costs a constant number of queries no
// matter how many books match.
func (r *bookRepository) annotated(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Book{}).
		Select(`books.*, COUNT(CASE WHEN reactions."like" THEN 1 END) AS annotate_likes, AVG(reactions.rate) AS rate`).
		Joins("LEFT JOIN reactions ON reactions.book_id = books.id").
		Group("books.id").
		Preload("Owner").
		Preload("Reactions.User")
}

func (r *bookRepository) List(ctx context.Context, q ListQuery) ([]models.AnnotatedBook, error) {
	var list []models.AnnotatedBook

	db := r.annotated(ctx)
	if q.Price != nil {
		db = db.Where("books.price = ?", *q.Price)
	}
	if q.Search != "" {
		cond, args := SearchCondition(q.Search)
		db = db.Where(cond, args...)
	}

	if err := db.Order(OrderClause(q.Ordering)).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return list, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.AnnotatedBook, error) {
	var b models.AnnotatedBook
	if err := r.annotated(ctx).Where("books.id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM will populate b.ID and b.CreatedAt
	return nil
}

func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// UpdateRating persists just the derived rating column. A nil rating means
// the book has no rated reactions and the column goes back to NULL.
func (r *bookRepository) UpdateRating(ctx context.Context, id int64, rating *float64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Update("rating", rating).Error; err != nil {
		return fmt.Errorf("update book rating: %w", err)
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Book{}, id).Error; err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return nil
}

// searchEscaper neutralizes the LIKE pattern metacharacters so a search
// term like "100%" or "a_b" matches literally instead of as a wildcard.
var searchEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern wraps a search term for a case-insensitive substring
// match, escaping any pattern metacharacters in the term itself.
func SearchPattern(term string) string {
	return "%" + searchEscaper.Replace(term) + "%"
}

// SearchCondition builds the listing search predicate: a case-insensitive
// substring match of the literal term against the book name or the author
// name. An absent author_name never matches.
func SearchCondition(term string) (string, []interface{}) {
	p := SearchPattern(term)
	return `(books.name ILIKE ? ESCAPE '\' OR COALESCE(books.author_name,'') ILIKE ? ESCAPE '\')`, []interface{}{p, p}
}

// orderableColumns whitelists the ordering query parameter. Aggregate
// aliases are orderable too since they exist in the same select.
var orderableColumns = map[string]string{
	"id":             "books.id",
	"name":           "books.name",
	"price":          "books.price",
	"author_name":    "books.author_name",
	"is_published":   "books.is_published",
	"rating":         "books.rating",
	"created_at":     "books.created_at",
	"annotate_likes": "annotate_likes",
	"rate":           "rate",
}

// OrderClause maps an ordering parameter ("price", "-name", ...) to an
// ORDER BY body. Unknown or empty fields fall back to insertion order.
// books.id is always the final sort key so rows with equal values come
// back in a stable ascending-id order.
func OrderClause(ordering string) string {
	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		ordering = ordering[1:]
	}

	column, ok := orderableColumns[ordering]
	if !ok {
		return "books.id ASC"
	}
	if ordering == "id" {
		return "books.id " + direction
	}
	return column + " " + direction + ", books.id ASC"
}
