package handler

import (
	"github.com/stockhub/auth-service/internal/core/domain"
	"github.com/stockhub/auth-service/internal/core/ports"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		OrganizationID: u.OrganizationID,
		CreatedAt:      u.CreatedAt,
	}
}

func toAuthResponse(r *ports.AuthResult) authResponse {
	resp := authResponse{
		User:      toUserResponse(r.User),
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt.UTC(),
	}
	if r.Organization != nil {
		resp.Organization = &organizationResponse{ID: r.Organization.ID, Name: r.Organization.Name}
	}
	return resp
}

func (r registerRequest) toInput() ports.RegisterInput {
	return ports.RegisterInput{
		Email:            r.Email,
		Password:         r.Password,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		OrganizationName: r.OrganizationName,
	}
}
