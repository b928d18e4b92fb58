package models

type Role string

const (
	RoleTechnician Role = "technician"
	RoleDirector   Role = "director"
)

func (r Role) Valid() bool {
	return r == RoleTechnician || r == RoleDirector
}

// User is a field account. Password is credential material kept as received,
// since clients authenticate offline against the synced list.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Password string  `json:"password"`
	FullName string  `json:"fullName"`
	Role     Role    `json:"role"`
	Phone    *string `json:"phone,omitempty"`
}

func (u User) Clone() User {
	c := u
	c.Phone = cloneString(u.Phone)
	return c
}
