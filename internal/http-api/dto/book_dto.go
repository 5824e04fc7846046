package dto

import (
	"math"
	"strconv"

	"bookhub/internal/http-api/models"
)

// CreateBookDTO used for POST /api/books. The owner is never part of the
// payload: the API always assigns the authenticated requester.
type CreateBookDTO struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	AuthorName  string   `json:"author_name"`
	IsPublished *bool    `json:"is_published,omitempty"`
}

// UpdateBookDTO used for PUT/PATCH /api/books/:id (partial updates allowed)
type UpdateBookDTO struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	AuthorName  *string  `json:"author_name,omitempty"`
	IsPublished *bool    `json:"is_published,omitempty"`
}

// ReaderName is one reader entry in a book representation.
type ReaderName struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BookResponse DTO for responses. Money-ish values go out as 2-decimal
// strings; rate and rating stay null when no rated reactions exist.
type BookResponse struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Price         string       `json:"price"`
	AuthorName    string       `json:"author_name"`
	AnnotateLikes int64        `json:"annotate_likes"`
	Rate          *string      `json:"rate"`
	OwnerName     string       `json:"owner_name"`
	ReaderFIO     []ReaderName `json:"reader_fio"`
	Rating        *string      `json:"rating"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	b := models.Book{
		Name:       d.Name,
		AuthorName: d.AuthorName,
	}
	if d.Price != nil {
		b.Price = *d.Price
	}
	if d.IsPublished != nil {
		b.IsPublished = *d.IsPublished
	}
	return b
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Name != nil {
		b.Name = *d.Name
	}
	if d.Price != nil {
		b.Price = *d.Price
	}
	if d.AuthorName != nil {
		b.AuthorName = *d.AuthorName
	}
	if d.IsPublished != nil {
		b.IsPublished = *d.IsPublished
	}
}

func FromAnnotatedBook(b models.AnnotatedBook) BookResponse {
	resp := BookResponse{
		ID:            b.ID,
		Name:          b.Name,
		Price:         FormatDecimal(b.Price),
		AuthorName:    b.AuthorName,
		AnnotateLikes: b.AnnotateLikes,
		Rate:          formatDecimalPtr(b.Rate),
		Rating:        formatDecimalPtr(b.Rating),
		ReaderFIO:     make([]ReaderName, 0, len(b.Reactions)),
	}
	if b.Owner != nil {
		resp.OwnerName = b.Owner.Username
	}
	for _, r := range b.Reactions {
		resp.ReaderFIO = append(resp.ReaderFIO, ReaderName{
			FirstName: r.User.FirstName,
			LastName:  r.User.LastName,
		})
	}
	return resp
}

// FormatDecimal renders a value with exactly two fractional digits,
// rounding half away from zero.
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}

func formatDecimalPtr(v *float64) *string {
	if v == nil {
		return nil
	}
	s := FormatDecimal(*v)
	return &s
}
