package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
)

// === Board Methods ===

func (c *APIClient) GetBoards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := c.doJSON(ctx, http.MethodGet, "/boards", nil, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

func (c *APIClient) CreateBoard(ctx context.Context, data api.CreateBoardRequest) (domain.Board, error) {
	var board domain.Board
	err := c.doJSON(ctx, http.MethodPost, "/boards", data, &board)
	return board, err
}

// GetBoardDetail returns the board with its cards.
func (c *APIClient) GetBoardDetail(ctx context.Context, id domain.BoardId) (domain.BoardDetail, error) {
	var detail domain.BoardDetail
	err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/boards/%d", id), nil, &detail)
	return detail, err
}

func (c *APIClient) GetAccessList(ctx context.Context, id domain.BoardId) ([]domain.AccessGrant, error) {
	var access []domain.AccessGrant
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/access", id), nil, &access); err != nil {
		return nil, err
	}
	return access, nil
}

func (c *APIClient) GrantAccess(ctx context.Context, id domain.BoardId, data api.GrantAccessRequest) (domain.AccessGrant, error) {
	var grant domain.AccessGrant
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/boards/%d/access", id), data, &grant)
	return grant, err
}

func (c *APIClient) CreateShareLink(ctx context.Context, id domain.BoardId, data api.CreateShareRequest) (domain.ShareLink, error) {
	var link domain.ShareLink
	err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/boards/%d/share", id), data, &link)
	return link, err
}

func (c *APIClient) RenameBoard(ctx context.Context, id domain.BoardId, data api.RenameBoardRequest) (domain.Board, error) {
	var board domain.Board
	err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/boards/%d", id), data, &board)
	return board, err
}

func (c *APIClient) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/boards/%d", id), nil, nil)
}

func (c *APIClient) RevokeAccess(ctx context.Context, id domain.BoardId, grantId int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/boards/%d/access/%d", id, grantId), nil, nil)
}

func (c *APIClient) GetShareLinks(ctx context.Context, id domain.BoardId) ([]domain.ShareLink, error) {
	var links []domain.ShareLink
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/boards/%d/share", id), nil, &links); err != nil {
		return nil, err
	}
	return links, nil
}

func (c *APIClient) DeleteShareLink(ctx context.Context, id domain.BoardId, shareId int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/boards/%d/share/%d", id, shareId), nil, nil)
}

// Me returns the identity behind the client's session.
func (c *APIClient) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.doJSON(ctx, http.MethodGet, "/me", nil, &user)
	return user, err
}
