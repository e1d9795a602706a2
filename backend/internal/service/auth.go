package service

import (
	"net/http"
	"strings"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

type AuthService interface {
	Signup(creds domain.Credentials) (string, error)
	Login(creds domain.Credentials) (string, error)
	User(id domain.UserId) (domain.User, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

type AuthStorage interface {
	SaveUser(email domain.Email, passHash string) (domain.User, error)
	AccountByEmail(email domain.Email) (domain.Account, error)
	User(id domain.UserId) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

func NewAuth(storage AuthStorage, jwt Jwt) *Auth {
	return &Auth{storage: storage, jwt: jwt}
}

// Signup registers the user and returns an access token for it.
func (a *Auth) Signup(creds domain.Credentials) (string, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	passHash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}
	user, err := a.storage.SaveUser(email, string(passHash))
	if err != nil {
		return "", err
	}
	logger.Log.Info("user signed up", "user_id", user.Id)
	return a.jwt.NewToken(user)
}

func (a *Auth) Login(creds domain.Credentials) (string, error) {
	account, err := a.storage.AccountByEmail(strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PassHash), []byte(creds.Password)); err != nil {
		return "", errInvalidCredentials
	}
	return a.jwt.NewToken(account.User)
}

func (a *Auth) User(id domain.UserId) (domain.User, error) {
	return a.storage.User(id)
}
