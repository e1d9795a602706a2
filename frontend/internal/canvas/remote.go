package canvas

import (
	"context"
	"io"

	"github.com/brainboard/brainboard/frontend/internal/permission"
	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/logger"
)

// Remote is the persistence surface of one open board, either reached
// directly by id or through a share link.
type Remote interface {
	Load(ctx context.Context) (domain.BoardDetail, error)
	Cards(ctx context.Context) ([]domain.Card, error)
	CreateCard(ctx context.Context, req api.CreateCardRequest) (domain.Card, error)
	UpdateCard(ctx context.Context, id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	DeleteCard(ctx context.Context, id domain.CardId) error
	UploadImage(ctx context.Context, filename string, r io.Reader) (string, error)
	Gate(ctx context.Context, user *domain.User, board domain.Board) permission.Gate
}

// BoardClient is the part of the API client used by an authenticated view.
type BoardClient interface {
	GetBoardDetail(ctx context.Context, id domain.BoardId) (domain.BoardDetail, error)
	GetCards(ctx context.Context, boardId domain.BoardId) ([]domain.Card, error)
	CreateCard(ctx context.Context, boardId domain.BoardId, data api.CreateCardRequest) (domain.Card, error)
	UpdateCard(ctx context.Context, id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	DeleteCard(ctx context.Context, id domain.CardId) error
	UploadImage(ctx context.Context, boardId domain.BoardId, filename string, r io.Reader) (string, error)
	GetAccessList(ctx context.Context, id domain.BoardId) ([]domain.AccessGrant, error)
}

// ShareClient is the part of the API client used by a link view.
type ShareClient interface {
	GetSharedBoard(ctx context.Context, token domain.ShareToken) (domain.BoardDetail, error)
	GetSharedCards(ctx context.Context, token domain.ShareToken) ([]domain.Card, error)
	CreateSharedCard(ctx context.Context, token domain.ShareToken, data api.CreateCardRequest) (domain.Card, error)
	UpdateSharedCard(ctx context.Context, token domain.ShareToken, id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	DeleteSharedCard(ctx context.Context, token domain.ShareToken, id domain.CardId) error
	UploadSharedImage(ctx context.Context, token domain.ShareToken, filename string, r io.Reader) (string, error)
	GetSharePermission(ctx context.Context, token domain.ShareToken) (domain.Permission, error)
}

type boardRemote struct {
	c  BoardClient
	id domain.BoardId
}

func BoardRemote(c BoardClient, id domain.BoardId) Remote {
	return &boardRemote{c: c, id: id}
}

func (r *boardRemote) Load(ctx context.Context) (domain.BoardDetail, error) {
	return r.c.GetBoardDetail(ctx, r.id)
}

func (r *boardRemote) Cards(ctx context.Context) ([]domain.Card, error) {
	return r.c.GetCards(ctx, r.id)
}

func (r *boardRemote) CreateCard(ctx context.Context, req api.CreateCardRequest) (domain.Card, error) {
	return r.c.CreateCard(ctx, r.id, req)
}

func (r *boardRemote) UpdateCard(ctx context.Context, id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	return r.c.UpdateCard(ctx, id, patch)
}

func (r *boardRemote) DeleteCard(ctx context.Context, id domain.CardId) error {
	return r.c.DeleteCard(ctx, id)
}

func (r *boardRemote) UploadImage(ctx context.Context, filename string, rd io.Reader) (string, error) {
	return r.c.UploadImage(ctx, r.id, filename, rd)
}

// Gate falls back to an empty access list when it cannot be read, which
// leaves non-owners read-only.
func (r *boardRemote) Gate(ctx context.Context, user *domain.User, board domain.Board) permission.Gate {
	if user != nil && user.Id == board.OwnerId {
		return permission.ForBoard(user, board, nil)
	}
	access, err := r.c.GetAccessList(ctx, r.id)
	if err != nil {
		logger.Component("canvas").Warn("access list unavailable, viewing read-only", "board_id", r.id, "error", err)
	}
	return permission.ForBoard(user, board, access)
}

type shareRemote struct {
	c     ShareClient
	token domain.ShareToken
}

func ShareRemote(c ShareClient, token domain.ShareToken) Remote {
	return &shareRemote{c: c, token: token}
}

func (r *shareRemote) Load(ctx context.Context) (domain.BoardDetail, error) {
	return r.c.GetSharedBoard(ctx, r.token)
}

func (r *shareRemote) Cards(ctx context.Context) ([]domain.Card, error) {
	return r.c.GetSharedCards(ctx, r.token)
}

func (r *shareRemote) CreateCard(ctx context.Context, req api.CreateCardRequest) (domain.Card, error) {
	return r.c.CreateSharedCard(ctx, r.token, req)
}

func (r *shareRemote) UpdateCard(ctx context.Context, id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	return r.c.UpdateSharedCard(ctx, r.token, id, patch)
}

func (r *shareRemote) DeleteCard(ctx context.Context, id domain.CardId) error {
	return r.c.DeleteSharedCard(ctx, r.token, id)
}

func (r *shareRemote) UploadImage(ctx context.Context, filename string, rd io.Reader) (string, error) {
	return r.c.UploadSharedImage(ctx, r.token, filename, rd)
}

func (r *shareRemote) Gate(ctx context.Context, user *domain.User, board domain.Board) permission.Gate {
	perm, err := r.c.GetSharePermission(ctx, r.token)
	if err != nil {
		logger.Component("canvas").Warn("share permission unavailable, viewing read-only", "board_id", board.Id, "error", err)
		perm = domain.PermissionRead
	}
	return permission.ForShare(user, board, perm)
}
