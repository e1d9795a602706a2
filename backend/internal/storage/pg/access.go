package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/brainboard/brainboard/shared/domain"
	sharedpg "github.com/brainboard/brainboard/shared/storage/pg"
)

func scanGrant(row scanner) (domain.AccessGrant, error) {
	var (
		grant  domain.AccessGrant
		userId sql.NullInt64
		perm   string
	)
	if err := row.Scan(&grant.Id, &grant.BoardId, &userId, &grant.Email, &perm); err != nil {
		return domain.AccessGrant{}, err
	}
	grant.UserId = userId.Int64
	grant.Permission = domain.Permission(perm)
	return grant, nil
}

func (s *Storage) AccessList(boardId domain.BoardId) ([]domain.AccessGrant, error) {
	ctx, cancel := queryContext()
	defer cancel()

	if err := boardExists(ctx, s.db, boardId); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, user_id, email, permission FROM access_grants WHERE board_id = $1 ORDER BY id`,
		boardId,
	)
	if err != nil {
		return nil, fmt.Errorf("access list: %w", err)
	}
	defer rows.Close()

	grants := []domain.AccessGrant{}
	for rows.Next() {
		grant, err := scanGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grants: %w", err)
	}
	return grants, nil
}

// GrantAccess adds a grant or replaces the permission of an existing grant
// for the same email. The user id is filled in when the email is registered.
func (s *Storage) GrantAccess(grant domain.AccessGrant) (domain.AccessGrant, error) {
	ctx, cancel := queryContext()
	defer cancel()

	grant.Email = normalizeEmail(grant.Email)
	var saved domain.AccessGrant
	err := sharedpg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := boardExists(ctx, tx, grant.BoardId); err != nil {
			return err
		}
		var err error
		saved, err = scanGrant(tx.QueryRowContext(ctx, `
			INSERT INTO access_grants (board_id, user_id, email, permission)
			VALUES ($1, (SELECT id FROM users WHERE email = $2), $2, $3)
			ON CONFLICT ON CONSTRAINT access_grants_board_email_key
			DO UPDATE SET permission = EXCLUDED.permission, user_id = EXCLUDED.user_id
			RETURNING id, board_id, user_id, email, permission`,
			grant.BoardId, grant.Email, string(grant.Permission),
		))
		return err
	})
	if err != nil {
		return domain.AccessGrant{}, err
	}
	return saved, nil
}

func (s *Storage) RevokeAccess(boardId domain.BoardId, grantId int64) error {
	ctx, cancel := queryContext()
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM access_grants WHERE board_id = $1 AND id = $2`, boardId, grantId,
	)
	return affectedOne(res, err, errGrantNotFound, "revoke access")
}

// Grant returns the grant matching the user by id, then by email. Lookup
// failures are logged and treated as no grant.
func (s *Storage) Grant(boardId domain.BoardId, user domain.User) (domain.AccessGrant, bool) {
	ctx, cancel := queryContext()
	defer cancel()

	grant, err := scanGrant(s.db.QueryRowContext(ctx, `
		SELECT id, board_id, user_id, email, permission
		FROM access_grants
		WHERE board_id = $1 AND ((user_id = $2 AND $2 <> 0) OR email = $3)
		ORDER BY (user_id = $2 AND $2 <> 0) DESC NULLS LAST, id
		LIMIT 1`,
		boardId, user.Id, normalizeEmail(user.Email),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AccessGrant{}, false
	}
	if err != nil {
		s.logQueryError("grant", err)
		return domain.AccessGrant{}, false
	}
	return grant, true
}

func (s *Storage) CreateShare(link domain.ShareLink) (domain.ShareLink, error) {
	ctx, cancel := queryContext()
	defer cancel()

	if err := boardExists(ctx, s.db, link.BoardId); err != nil {
		return domain.ShareLink{}, err
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO share_links (board_id, token, permission) VALUES ($1, $2, $3) RETURNING id`,
		link.BoardId, link.Token, string(link.Permission),
	).Scan(&link.Id)
	if sharedpg.IsUniqueViolation(err, "share_links_token_key") {
		return domain.ShareLink{}, errTokenTaken
	}
	if err != nil {
		return domain.ShareLink{}, fmt.Errorf("create share: %w", err)
	}
	return link, nil
}

// ShareLinks lists the links of a board ordered by id.
func (s *Storage) ShareLinks(boardId domain.BoardId) ([]domain.ShareLink, error) {
	ctx, cancel := queryContext()
	defer cancel()

	if err := boardExists(ctx, s.db, boardId); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, board_id, token, permission FROM share_links WHERE board_id = $1 ORDER BY id`, boardId,
	)
	if err != nil {
		return nil, fmt.Errorf("share links: %w", err)
	}
	defer rows.Close()

	links := []domain.ShareLink{}
	for rows.Next() {
		link, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("scan share link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate share links: %w", err)
	}
	return links, nil
}

func (s *Storage) DeleteShare(boardId domain.BoardId, shareId int64) error {
	ctx, cancel := queryContext()
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM share_links WHERE board_id = $1 AND id = $2`, boardId, shareId,
	)
	return affectedOne(res, err, errShareNotFound, "delete share link")
}

func scanShare(row scanner) (domain.ShareLink, error) {
	var (
		link domain.ShareLink
		perm string
	)
	if err := row.Scan(&link.Id, &link.BoardId, &link.Token, &perm); err != nil {
		return domain.ShareLink{}, err
	}
	link.Permission = domain.Permission(perm)
	return link, nil
}

func (s *Storage) ShareLink(token domain.ShareToken) (domain.ShareLink, error) {
	ctx, cancel := queryContext()
	defer cancel()

	link, err := scanShare(s.db.QueryRowContext(ctx,
		`SELECT id, board_id, token, permission FROM share_links WHERE token = $1`, token,
	))
	if err != nil {
		return domain.ShareLink{}, notFound(err, errShareNotFound, "share link")
	}
	return link, nil
}
