// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/ecodenuncia/internal/filter"
)

type CreateUserRequest struct {
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role"     validate:"omitempty,oneof=USER ADMIN"`
}

type UpdateUserRequest struct {
	Name     string  `json:"name"               validate:"required,min=1,max=100"`
	Email    string  `json:"email"              validate:"required,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Role     string  `json:"role,omitempty"     validate:"omitempty,oneof=USER ADMIN"`
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListFilter struct {
	Name  string
	Email string
}

func (f ListFilter) Builder() *filter.Builder {
	return filter.New().
		Contains("u.name", f.Name).
		Contains("u.email", f.Email)
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
