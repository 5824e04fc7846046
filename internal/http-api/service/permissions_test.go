package service

import (
	"testing"

	"bookhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

func TestCanWrite(t *testing.T) {
	ownerID := "7b6dca14-9e4f-4a26-93e5-0d0a3ec4b012"
	owner := &models.User{ID: ownerID}
	staff := &models.User{ID: "another-id", IsStaff: true}
	stranger := &models.User{ID: "stranger-id"}

	unpublished := &models.Book{ID: 1, OwnerID: &ownerID}
	published := &models.Book{ID: 2, OwnerID: &ownerID, IsPublished: true}
	orphan := &models.Book{ID: 3}

	tests := []struct {
		name   string
		actor  *models.User
		book   *models.Book
		unsafe bool
		want   bool
	}{
		{"anonymous read", nil, unpublished, false, true},
		{"anonymous read published", nil, published, false, true},
		{"anonymous write denied", nil, unpublished, true, false},
		{"owner writes own unpublished", owner, unpublished, true, true},
		{"owner denied on published", owner, published, true, false},
		{"staff writes unpublished", staff, unpublished, true, true},
		{"staff writes published", staff, published, true, true},
		{"stranger write denied", stranger, unpublished, true, false},
		{"stranger read allowed", stranger, published, false, true},
		{"nobody owns orphan", stranger, orphan, true, false},
		{"staff writes orphan", staff, orphan, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanWrite(tt.actor, tt.book, tt.unsafe))
		})
	}
}

func TestPermissionDeniedMessage(t *testing.T) {
	assert.Equal(t, "You do not have permission to perform this action.", ErrPermissionDenied.Error())
}
