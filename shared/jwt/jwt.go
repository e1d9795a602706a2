package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity carried by an access token.
type Claims struct {
	UserId    domain.UserId
	Email     domain.Email
	ExpiresAt time.Time
}

type JwtService interface {
	NewToken(user domain.User) (string, error)
	DecodeToken(jwtStr string) (Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
}

func New(secretKey string, ttl time.Duration) JwtService {
	return &Jwt{secretKey, ttl}
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["sub"] = user.Id
	claims["email"] = user.Email
	claims["exp"] = time.Now().Add(j.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("can't sign token", "error", err)
		return "", errors.New("Can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, &internal_errors.ErrorWithStatusCode{Message: fmt.Sprintf("Unexpected signing method: %v", token.Header["alg"]), StatusCode: http.StatusUnauthorized}
		}
		return []byte(j.secretKey), nil
	})
	if err != nil || !token.Valid {
		logger.Log.Debug("rejected token", "error", err)
		return Claims{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	}
	return claimsFrom(token)
}

// ParseUnverified reads the claims of a token without checking its signature.
// Clients use it to learn their own identity; only the server may trust it.
func ParseUnverified(jwtStr string) (Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(jwtStr, jwt.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("malformed token: %w", err)
	}
	return claimsFrom(token)
}

func claimsFrom(token *jwt.Token) (Claims, error) {
	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errInvalidClaims
	}
	sub, ok := mapClaims["sub"].(float64)
	if !ok {
		return Claims{}, errInvalidClaims
	}
	claims := Claims{UserId: domain.UserId(sub)}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	return claims, nil
}

var errInvalidClaims = &internal_errors.ErrorWithStatusCode{Message: "Invalid token claims", StatusCode: http.StatusUnauthorized}
