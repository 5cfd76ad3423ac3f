package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/suar-net/starter-be/internal/config"
	"github.com/suar-net/starter-be/internal/model"
)

type authService struct {
	jwtConfig config.JWTConfig
}

func NewAuthService(jwtConfig config.JWTConfig) IAuthService {
	return &authService{jwtConfig: jwtConfig}
}

func (s *authService) IssueToken(subject string) (*model.DTOTokenResponse, error) {
	if subject == "" {
		return nil, fmt.Errorf("%w: subject cannot be empty", ErrInvalidInput)
	}

	now := time.Now()
	claims := &model.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenExpiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &model.DTOTokenResponse{
		AccessToken: tokenString,
		TokenType:   "Bearer",
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*model.Claims, error) {
	claims := &model.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SecretKey), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
