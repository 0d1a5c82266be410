package authz

import (
	"net/http"

	"critica/internal/domain"
)

// IsSafeMethod reports whether the method is read-only in the HTTP
// sense; safe methods bypass role gates on public resources.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanModifyContent decides object-level write access for reviews and
// comments: the author, a moderator or an admin.
func CanModifyContent(u *domain.User, authorID domain.UserID) bool {
	if u == nil {
		return false
	}
	return u.ID == authorID || u.Role.CanModerate()
}
