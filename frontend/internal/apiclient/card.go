package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
)

// === Card Methods ===

func (c *APIClient) GetCards(ctx context.Context, boardId domain.BoardId) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/cards", boardId), nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *APIClient) CreateCard(ctx context.Context, boardId domain.BoardId, data api.CreateCardRequest) (domain.Card, error) {
	var card domain.Card
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/boards/%d/cards", boardId), data, &card)
	return card, err
}

// UpdateCard sends a partial update; only non-nil patch fields go on the wire.
// The returned card is the stored one, with the server's updated_at.
func (c *APIClient) UpdateCard(ctx context.Context, id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	var card domain.Card
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/cards/%d", id), api.NewUpdateCardRequest(patch), &card)
	return card, err
}

func (c *APIClient) DeleteCard(ctx context.Context, id domain.CardId) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/cards/%d", id), nil, nil)
}
