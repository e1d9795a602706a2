package pg

import (
	"fmt"

	"github.com/brainboard/brainboard/shared/domain"
)

const cardColumns = `id, board_id, kind, text, image_url, position_x, position_y, width, height, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCard(row scanner) (domain.Card, error) {
	var card domain.Card
	err := row.Scan(&card.Id, &card.BoardId, &card.Kind, &card.Text, &card.ImageURL,
		&card.PositionX, &card.PositionY, &card.Width, &card.Height, &card.UpdatedAt)
	if err != nil {
		return domain.Card{}, err
	}
	if card.UpdatedAt != nil {
		card.UpdatedAt = domain.Ptr(card.UpdatedAt.UTC())
	}
	return card, nil
}

func (s *Storage) Cards(boardId domain.BoardId) ([]domain.Card, error) {
	ctx, cancel := queryContext()
	defer cancel()

	if err := boardExists(ctx, s.db, boardId); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE board_id = $1 ORDER BY id`, boardId)
	if err != nil {
		return nil, fmt.Errorf("cards: %w", err)
	}
	defer rows.Close()

	cards := []domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}
	return cards, nil
}

func (s *Storage) Card(id domain.CardId) (domain.Card, error) {
	ctx, cancel := queryContext()
	defer cancel()

	card, err := scanCard(s.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		return domain.Card{}, notFound(err, errCardNotFound, "card")
	}
	return card, nil
}

// CreateCard assigns the id and modification time of card.
func (s *Storage) CreateCard(card domain.Card) (domain.Card, error) {
	ctx, cancel := queryContext()
	defer cancel()

	if err := boardExists(ctx, s.db, card.BoardId); err != nil {
		return domain.Card{}, err
	}
	kind := card.Kind
	if kind == "" {
		kind = domain.CardKindText
	}
	created, err := scanCard(s.db.QueryRowContext(ctx, `
		INSERT INTO cards (board_id, kind, text, image_url, position_x, position_y, width, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+cardColumns,
		card.BoardId, string(kind), card.Text, card.ImageURL, card.PositionX, card.PositionY, card.Width, card.Height,
	))
	if err != nil {
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}
	return created, nil
}

// UpdateCard applies the non-nil fields of patch and bumps updated_at.
func (s *Storage) UpdateCard(id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	ctx, cancel := queryContext()
	defer cancel()

	card, err := scanCard(s.db.QueryRowContext(ctx, `
		UPDATE cards SET
			text       = COALESCE($2, text),
			position_x = COALESCE($3, position_x),
			position_y = COALESCE($4, position_y),
			width      = COALESCE($5, width),
			height     = COALESCE($6, height),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+cardColumns,
		id, patch.Text, patch.PositionX, patch.PositionY, patch.Width, patch.Height,
	))
	if err != nil {
		return domain.Card{}, notFound(err, errCardNotFound, "update card")
	}
	return card, nil
}

func (s *Storage) DeleteCard(id domain.CardId) error {
	ctx, cancel := queryContext()
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	return affectedOne(res, err, errCardNotFound, "delete card")
}
