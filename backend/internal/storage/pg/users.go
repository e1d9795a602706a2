package pg

import (
	"fmt"

	"github.com/brainboard/brainboard/shared/domain"
	sharedpg "github.com/brainboard/brainboard/shared/storage/pg"
)

func (s *Storage) SaveUser(email domain.Email, passHash string) (domain.User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	user := domain.User{Email: normalizeEmail(email)}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`,
		user.Email, passHash,
	).Scan(&user.Id)
	if sharedpg.IsUniqueViolation(err, "users_email_key") {
		return domain.User{}, errEmailTaken
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *Storage) AccountByEmail(email domain.Email) (domain.Account, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var account domain.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash FROM users WHERE email = $1`,
		normalizeEmail(email),
	).Scan(&account.Id, &account.Email, &account.PassHash)
	if err != nil {
		return domain.Account{}, notFound(err, errUserNotFound, "account by email")
	}
	return account, nil
}

func (s *Storage) User(id domain.UserId) (domain.User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var user domain.User
	err := s.db.QueryRowContext(ctx, `SELECT id, email FROM users WHERE id = $1`, id).Scan(&user.Id, &user.Email)
	if err != nil {
		return domain.User{}, notFound(err, errUserNotFound, "user")
	}
	return user, nil
}
