package models

import "time"

// Reaction is one user's state for one book: like, bookmark flag and an
// optional 1-5 rate. The composite unique index is the storage-level
// guarantee that concurrent first-time writes cannot produce two rows for
// the same (user, book) pair.
type Reaction struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_book"`
	BookID      int64     `json:"book_id" gorm:"not null;uniqueIndex:idx_reactions_user_book"`
	Like        bool      `json:"like" gorm:"default:false;not null"`
	InBookmarks bool      `json:"in_bookmarks" gorm:"default:false;not null"`
	Rate        *int      `json:"rate,omitempty" gorm:"check:rate >= 1 AND rate <= 5"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Reaction) TableName() string {
	return "reactions"
}
