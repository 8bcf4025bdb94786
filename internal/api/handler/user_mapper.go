package handler

import (
	"time"

	"github.com/interfac/user-manager/internal/core/domain"
)

const birthDateLayout = "2006-01-02"

func toUserResponse(u *domain.User) userResponse {
	birth := ""
	if !u.BirthDate.IsZero() {
		birth = u.BirthDate.Format(birthDateLayout)
	}
	return userResponse{
		ID:         u.ID,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		Phone:      u.Phone,
		BirthDate:  birth,
		IsAdmin:    u.IsAdmin,
		Enabled:    u.Enabled,
		CreatedAt:  u.CreatedAt,
		ModifiedAt: u.ModifiedAt,
		ModifiedBy: u.ModifiedBy,
		Roles:      domain.RoleNames(u.Roles),
	}
}

func toListResponse(users []domain.User) listUsersResponse {
	data := make([]userResponse, 0, len(users))
	for i := range users {
		data = append(data, toUserResponse(&users[i]))
	}
	return listUsersResponse{Data: data, Total: len(data)}
}

// parseBirthDate accepts an empty value or a YYYY-MM-DD date.
func parseBirthDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(birthDateLayout, s)
}
