package model

import (
	"github.com/golang-jwt/jwt/v5"
)

type DTOItemRequest struct {
	Name        string `json:"name" validate:"required,max=128"`
	Description string `json:"description" validate:"max=1024"`
}

type DTOTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Claims struct {
	jwt.RegisteredClaims
}
