package service

import (
	"errors"

	"bookhub/internal/http-api/models"
)

// PermissionDeniedMessage is the exact body sent with every 403 response.
const PermissionDeniedMessage = "You do not have permission to perform this action."

var ErrPermissionDenied = errors.New(PermissionDeniedMessage)

// CanWrite decides whether actor may mutate book. Safe (read) requests are
// always allowed, even anonymous ones. Unsafe requests require an
// authenticated actor who is staff or owns the book — with one exception:
// a published book is frozen against owner edits, only staff may touch it.
func CanWrite(actor *models.User, book *models.Book, unsafe bool) bool {
	if !unsafe {
		return true
	}
	if actor == nil {
		return false
	}
	if actor.IsStaff {
		return true
	}
	if book.IsPublished {
		return false
	}
	return book.OwnerID != nil && *book.OwnerID == actor.ID
}
