package pg

import (
	"fmt"

	"github.com/brainboard/brainboard/shared/domain"
)

const boardColumns = `b.id, b.title, b.owner_id, b.thumbnail_url`

func (s *Storage) CreateBoard(board domain.Board) (domain.Board, error) {
	ctx, cancel := queryContext()
	defer cancel()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO boards (title, owner_id, thumbnail_url) VALUES ($1, $2, $3) RETURNING id`,
		board.Title, board.OwnerId, board.ThumbnailURL,
	).Scan(&board.Id)
	if err != nil {
		return domain.Board{}, fmt.Errorf("create board: %w", err)
	}
	return board, nil
}

func (s *Storage) Board(id domain.BoardId) (domain.Board, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var board domain.Board
	err := s.db.QueryRowContext(ctx,
		`SELECT `+boardColumns+` FROM boards b WHERE b.id = $1`, id,
	).Scan(&board.Id, &board.Title, &board.OwnerId, &board.ThumbnailURL)
	if err != nil {
		return domain.Board{}, notFound(err, errBoardNotFound, "board")
	}
	return board, nil
}

// BoardsForUser lists boards the user owns or was granted, ordered by id.
// Grants match by user id or, for grants issued before signup, by email.
func (s *Storage) BoardsForUser(user domain.User) ([]domain.Board, error) {
	ctx, cancel := queryContext()
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+boardColumns+`
		FROM boards b
		WHERE b.owner_id = $1
		   OR EXISTS (
			SELECT 1 FROM access_grants g
			WHERE g.board_id = b.id AND (g.user_id = $1 OR g.email = $2)
		   )
		ORDER BY b.id`,
		user.Id, normalizeEmail(user.Email),
	)
	if err != nil {
		return nil, fmt.Errorf("boards for user: %w", err)
	}
	defer rows.Close()

	boards := []domain.Board{}
	for rows.Next() {
		var board domain.Board
		if err := rows.Scan(&board.Id, &board.Title, &board.OwnerId, &board.ThumbnailURL); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards: %w", err)
	}
	return boards, nil
}

func (s *Storage) UpdateBoard(id domain.BoardId, patch domain.BoardPatch) (domain.Board, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var board domain.Board
	err := s.db.QueryRowContext(ctx, `
		UPDATE boards b SET
			title         = COALESCE($2, b.title),
			thumbnail_url = COALESCE($3, b.thumbnail_url)
		WHERE b.id = $1
		RETURNING `+boardColumns,
		id, patch.Title, patch.ThumbnailURL,
	).Scan(&board.Id, &board.Title, &board.OwnerId, &board.ThumbnailURL)
	if err != nil {
		return domain.Board{}, notFound(err, errBoardNotFound, "update board")
	}
	return board, nil
}

// DeleteBoard removes the board; cards, grants and share links go with it
// through ON DELETE CASCADE.
func (s *Storage) DeleteBoard(id domain.BoardId) error {
	ctx, cancel := queryContext()
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	return affectedOne(res, err, errBoardNotFound, "delete board")
}
