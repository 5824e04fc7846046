package service

import (
	"context"
	"testing"

	"bookhub/internal/http-api/dto"
	"bookhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func TestBookCreateForcesOwner(t *testing.T) {
	bookRepo := new(MockBookRepository)
	svc := NewBookService(bookRepo)

	actor := &models.User{ID: "creator-id", Username: "creator"}

	bookRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.OwnerID != nil && *b.OwnerID == "creator-id"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Book).ID = 5
	}).Return(nil)
	bookRepo.On("GetByID", mock.Anything, int64(5)).Return(annotatedBook(5), nil)

	_, err := svc.Create(context.Background(), dto.CreateBookDTO{
		Name:  "Путешествия",
		Price: floatPtr(500),
	}, actor)
	require.NoError(t, err)
	bookRepo.AssertExpectations(t)
}

func TestBookUpdateByOwner(t *testing.T) {
	bookRepo := new(MockBookRepository)
	svc := NewBookService(bookRepo)

	ownerID := "owner-id"
	existing := &models.AnnotatedBook{Book: models.Book{ID: 1, Name: "old", Price: 100, OwnerID: &ownerID}}

	bookRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)
	bookRepo.On("Update", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Name == "new name" && b.Price == 100
	})).Return(nil)

	_, err := svc.Update(context.Background(), 1, dto.UpdateBookDTO{Name: strPtr("new name")},
		&models.User{ID: ownerID})
	require.NoError(t, err)
	bookRepo.AssertExpectations(t)
}

func TestBookUpdatePermissionDenied(t *testing.T) {
	bookRepo := new(MockBookRepository)
	svc := NewBookService(bookRepo)

	ownerID := "owner-id"

	t.Run("stranger", func(t *testing.T) {
		existing := &models.AnnotatedBook{Book: models.Book{ID: 1, OwnerID: &ownerID}}
		bookRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()

		_, err := svc.Update(context.Background(), 1, dto.UpdateBookDTO{Name: strPtr("x")},
			&models.User{ID: "someone-else"})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("owner of published book", func(t *testing.T) {
		existing := &models.AnnotatedBook{Book: models.Book{ID: 2, OwnerID: &ownerID, IsPublished: true}}
		bookRepo.On("GetByID", mock.Anything, int64(2)).Return(existing, nil).Once()

		_, err := svc.Update(context.Background(), 2, dto.UpdateBookDTO{Name: strPtr("x")},
			&models.User{ID: ownerID})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("staff on published book", func(t *testing.T) {
		existing := &models.AnnotatedBook{Book: models.Book{ID: 3, OwnerID: &ownerID, IsPublished: true}}
		bookRepo.On("GetByID", mock.Anything, int64(3)).Return(existing, nil).Twice()
		bookRepo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.Update(context.Background(), 3, dto.UpdateBookDTO{Name: strPtr("x")},
			&models.User{ID: "staff-id", IsStaff: true})
		assert.NoError(t, err)
	})

	bookRepo.AssertNotCalled(t, "Update", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.ID == 1 || b.ID == 2
	}))
}

func TestBookDelete(t *testing.T) {
	bookRepo := new(MockBookRepository)
	svc := NewBookService(bookRepo)

	ownerID := "owner-id"
	existing := &models.AnnotatedBook{Book: models.Book{ID: 1, OwnerID: &ownerID}}

	bookRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)
	bookRepo.On("Delete", mock.Anything, int64(1)).Return(nil)

	err := svc.Delete(context.Background(), 1, &models.User{ID: ownerID})
	require.NoError(t, err)
	bookRepo.AssertExpectations(t)
}

func TestBookGetByIDNotFound(t *testing.T) {
	bookRepo := new(MockBookRepository)
	svc := NewBookService(bookRepo)

	bookRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
