package dto

import (
	"time"

	"bookhub/internal/http-api/models"
)

// UpdateReactionDTO is the partial-update payload for a (user, book)
// reaction. Absent fields keep their current value.
type UpdateReactionDTO struct {
	Like        *bool `json:"like,omitempty"`
	InBookmarks *bool `json:"in_bookmarks,omitempty"`
	Rate        *int  `json:"rate,omitempty" binding:"omitempty,min=1,max=5"`
}

func (d UpdateReactionDTO) ApplyTo(r *models.Reaction) {
	if d.Like != nil {
		r.Like = *d.Like
	}
	if d.InBookmarks != nil {
		r.InBookmarks = *d.InBookmarks
	}
	if d.Rate != nil {
		r.Rate = d.Rate
	}
}

// ReactionResponse for returning a user's reaction state
type ReactionResponse struct {
	BookID      int64     `json:"book"`
	Like        bool      `json:"like"`
	InBookmarks bool      `json:"in_bookmarks"`
	Rate        *int      `json:"rate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModelToReactionResponse converts a Reaction model to its response DTO
func FromModelToReactionResponse(r *models.Reaction) *ReactionResponse {
	return &ReactionResponse{
		BookID:      r.BookID,
		Like:        r.Like,
		InBookmarks: r.InBookmarks,
		Rate:        r.Rate,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
