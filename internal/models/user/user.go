package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email" validate:"required,email,max=320"`
	Name      *string   `json:"name" db:"name" validate:"omitnil,max=255"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlaceholderEmail используется, когда пользователь создаётся по одному id без email
func PlaceholderEmail(id uuid.UUID) string {
	return fmt.Sprintf("user-%s@users.invalid", id.String())
}

func (u *User) Clone() *User {
	c := *u
	if u.Name != nil {
		n := *u.Name
		c.Name = &n
	}
	return &c
}
