package view

import (
	"cmp"
	"slices"

	"github.com/ayoisaiah/drills/internal/models"
)

// UserField is a sortable column of the users table.
type UserField string

const (
	UserID        UserField = "id"
	UserFirstName UserField = "firstName"
	UserLastName  UserField = "lastName"
	UserEmail     UserField = "email"
	UserCreatedAt UserField = "createdAt"
)

var userFields = []UserField{
	UserID,
	UserFirstName,
	UserLastName,
	UserEmail,
	UserCreatedAt,
}

// DefaultUserSort shows the newest users first.
var DefaultUserSort = Sort[UserField]{Field: UserCreatedAt, Dir: Desc}

// ParseUserField validates a users column name.
func ParseUserField(s string) (UserField, error) {
	return parseField(s, "users", userFields)
}

// SortUsers returns a sorted copy of users.
func SortUsers(users []models.User, s Sort[UserField], c *Comparer) []models.User {
	out := slices.Clone(users)

	slices.SortStableFunc(out, func(a, b models.User) int {
		var r int

		switch s.Field {
		case UserID:
			r = cmp.Compare(a.ID, b.ID)
		case UserFirstName:
			r = c.Compare(a.FirstName, b.FirstName)
		case UserLastName:
			r = c.Compare(a.LastName, b.LastName)
		case UserEmail:
			r = c.Compare(a.EmailOrEmpty(), b.EmailOrEmpty())
		default:
			r = a.CreatedAt.Time().Compare(b.CreatedAt.Time())
		}

		return s.apply(r)
	})

	return out
}

// UserFields lists the sortable users columns in display order.
func UserFields() []UserField {
	return slices.Clone(userFields)
}
