package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
)

// === Share Link Methods ===

func sharePath(token domain.ShareToken, format string, args ...any) string {
	return "/share/" + url.PathEscape(token) + fmt.Sprintf(format, args...)
}

func (c *APIClient) GetSharedBoard(ctx context.Context, token domain.ShareToken) (domain.BoardDetail, error) {
	var detail domain.BoardDetail
	err := c.doJSON(ctx, http.MethodGet, sharePath(token, ""), nil, &detail)
	return detail, err
}

func (c *APIClient) GetSharedCards(ctx context.Context, token domain.ShareToken) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.doJSON(ctx, http.MethodGet, sharePath(token, "/cards"), nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *APIClient) CreateSharedCard(ctx context.Context, token domain.ShareToken, data api.CreateCardRequest) (domain.Card, error) {
	var card domain.Card
	err := c.doJSON(ctx, http.MethodPost, sharePath(token, "/cards"), data, &card)
	return card, err
}

func (c *APIClient) UpdateSharedCard(ctx context.Context, token domain.ShareToken, id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	var card domain.Card
	err := c.doJSON(ctx, http.MethodPut, sharePath(token, "/cards/%d", id), api.NewUpdateCardRequest(patch), &card)
	return card, err
}

func (c *APIClient) DeleteSharedCard(ctx context.Context, token domain.ShareToken, id domain.CardId) error {
	return c.doJSON(ctx, http.MethodDelete, sharePath(token, "/cards/%d", id), nil, nil)
}

// GetSharePermission resolves the access level granted by token.
func (c *APIClient) GetSharePermission(ctx context.Context, token domain.ShareToken) (domain.Permission, error) {
	var resp api.SharePermissionResponse
	if err := c.doJSON(ctx, http.MethodGet, "/permission/"+url.PathEscape(token), nil, &resp); err != nil {
		return domain.PermissionNone, err
	}
	return domain.ParsePermission(string(resp.Permission)), nil
}
