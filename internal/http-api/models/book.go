package models

import "time"

type Book struct {
	ID          int64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string   `json:"name" gorm:"not null"`
	Price       float64  `json:"price" gorm:"type:decimal(7,2);not null"`
	AuthorName  string   `json:"author_name" gorm:"default:''"`
	IsPublished bool     `json:"is_published" gorm:"default:false;not null"`
	OwnerID     *string  `json:"owner_id,omitempty" gorm:"type:uuid;index"`
	Rating      *float64 `json:"rating,omitempty" gorm:"type:decimal(3,2)"` // derived, recomputed from reactions

	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// Associations. Reader names come through Reactions.User; a many2many
	// through the reactions table would make AutoMigrate fight the explicit
	// Reaction model over the join table's shape.
	Owner     *User      `json:"owner,omitempty" gorm:"foreignKey:OwnerID;constraint:OnDelete:SET NULL;"`
	Reactions []Reaction `json:"reactions,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Book) TableName() string {
	return "books"
}

// AnnotatedBook is the listing read model: a book row plus the aggregates
// computed in the same query. Rate is the live average of reaction rates,
// distinct from the persisted Rating column.
type AnnotatedBook struct {
	Book
	AnnotateLikes int64    `json:"annotate_likes"`
	Rate          *float64 `json:"rate,omitempty"`
}
