package dto

import "github.com/noah-isme/portal-go-api/internal/models"

// SignupRequest describes the payload for creating an account.
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=teacher student"`
}

// SigninRequest describes the payload for exchanging credentials for a token.
type SigninRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupResponse wraps the created account record.
type SignupResponse struct {
	User models.User `json:"user"`
}

// SigninResponse carries the provider token plus the stored account record.
type SigninResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}
