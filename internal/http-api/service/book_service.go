package service

import (
	"context"
	"errors"

	"bookhub/internal/http-api/dto"
	"bookhub/internal/http-api/models"
	"bookhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrBookNotFound = errors.New("book not found")

type BookService interface {
	List(ctx context.Context, q repository.ListQuery) ([]models.AnnotatedBook, error)
	GetByID(ctx context.Context, id int64) (*models.AnnotatedBook, error)
	Create(ctx context.Context, in dto.CreateBookDTO, actor *models.User) (*models.AnnotatedBook, error)
	Update(ctx context.Context, id int64, in dto.UpdateBookDTO, actor *models.User) (*models.AnnotatedBook, error)
	Delete(ctx context.Context, id int64, actor *models.User) error
}

type bookService struct {
	bookRepo repository.BookRepository
}

func NewBookService(bookRepo repository.BookRepository) BookService {
	return &bookService{bookRepo: bookRepo}
}

func (s *bookService) List(ctx context.Context, q repository.ListQuery) ([]models.AnnotatedBook, error) {
	return s.bookRepo.List(ctx, q)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.AnnotatedBook, error) {
	b, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return b, nil
}

// Create persists a new book owned by actor. The object does not exist yet
// so the ownership check is vacuous: any authenticated user may create, and
// whatever owner the client tried to send has already been dropped at the
// DTO boundary.
func (s *bookService) Create(ctx context.Context, in dto.CreateBookDTO, actor *models.User) (*models.AnnotatedBook, error) {
	book := in.ToModel()
	book.OwnerID = &actor.ID

	if err := s.bookRepo.Create(ctx, &book); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, book.ID)
}

func (s *bookService) Update(ctx context.Context, id int64, in dto.UpdateBookDTO, actor *models.User) (*models.AnnotatedBook, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanWrite(actor, &existing.Book, true) {
		return nil, ErrPermissionDenied
	}

	book := existing.Book
	in.ApplyTo(&book)
	if err := s.bookRepo.Update(ctx, &book); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *bookService) Delete(ctx context.Context, id int64, actor *models.User) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanWrite(actor, &existing.Book, true) {
		return ErrPermissionDenied
	}

	return s.bookRepo.Delete(ctx, id)
}
