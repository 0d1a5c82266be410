package domain

import "time"

// Role is the authorization level of a user. Stored as text; comparisons
// go through the predicate methods rather than raw string equality.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// CanModerate reports whether the role may edit or delete content
// authored by other users.
func (r Role) CanModerate() bool { return r == RoleModerator || r == RoleAdmin }

// ReservedUsername can never be claimed at signup; it addresses the
// caller's own profile on the /users/me route.
const ReservedUsername = "me"

type User struct {
	ID        UserID    `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"type:citext;uniqueIndex:ux_users_username" json:"username"`
	Email     string    `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	Role      Role      `gorm:"type:text;not null;default:user" json:"role"`
	FirstName string    `gorm:"size:150" json:"firstName"`
	LastName  string    `gorm:"size:150" json:"lastName"`
	Bio       string    `gorm:"type:text" json:"bio"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// ConfirmationCode holds the argon2id digest of the code most recently
// issued to a user at signup. The plaintext is never persisted. A row is
// replaced on every signup call and deleted once exchanged for a token,
// so each code is single-use.
type ConfirmationCode struct {
	UserID     UserID    `gorm:"type:uuid;primaryKey" db:"user_id"`
	CodeHash   []byte    `gorm:"not null" db:"code_hash"`
	Salt       []byte    `gorm:"not null" db:"salt"`
	ParamsJSON []byte    `db:"params_json"`
	CreatedAt  time.Time `gorm:"not null" db:"created_at"`
}

func (ConfirmationCode) TableName() string { return "confirmation_codes" }
