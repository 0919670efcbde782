package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/Payphone-Digital/referral/internal/errors"
	"github.com/Payphone-Digital/referral/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// revocationFallbackTTL bounds how long a revoked non-expiring token is remembered.
const revocationFallbackTTL = 30 * 24 * time.Hour

// TokenClaims is what a verified session token carries.
type TokenClaims struct {
	UserID    string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token never expires
}

type JWTService struct {
	secretKey []byte
	ttl       time.Duration
	revoked   RevocationStore
	now       func() time.Time
}

// NewJWTService signs HS256 tokens with secretKey. A ttl of 0 issues tokens
// without an exp claim. revoked may be nil.
func NewJWTService(secretKey string, ttl time.Duration, revoked RevocationStore) *JWTService {
	return &JWTService{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		revoked:   revoked,
		now:       time.Now,
	}
}

func (s *JWTService) GenerateToken(userID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
	}
	if s.ttl > 0 {
		claims["exp"] = now.Add(s.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, algorithm, expiry and revocation.
// Every failure is reported as ErrInvalidToken.
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Revocation is a logout convenience; an unreachable store
			// must not lock every user out.
			logger.WarnWithContext(ctx, "Revocation check failed").
				String("jti", claims.ID).
				Err(err).
				Log()
		} else if revoked {
			return nil, apperrors.WrapError(apperrors.ErrInvalidToken, errors.New("token revoked"))
		}
	}

	return claims, nil
}

// Revoke remembers the token's jti until it would have expired anyway.
func (s *JWTService) Revoke(ctx context.Context, tokenString string) error {
	if s.revoked == nil {
		return nil
	}
	claims, err := s.parse(tokenString)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return nil
	}

	ttl := revocationFallbackTTL
	if !claims.ExpiresAt.IsZero() {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, ttl)
}

func (s *JWTService) parse(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userID, _ := mc["user_id"].(string)
	if userID == "" {
		return nil, errors.New("token has no user_id")
	}
	jti, _ := mc["jti"].(string)

	claims := &TokenClaims{UserID: userID, ID: jti}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}
