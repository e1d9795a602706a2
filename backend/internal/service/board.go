package service

import (
	"net/http"
	"strings"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/google/uuid"
)

var errBlankTitle = &errors.ErrorWithStatusCode{Message: "Title is required", StatusCode: http.StatusBadRequest}

var errBadPermission = &errors.ErrorWithStatusCode{Message: "Permission must be 'read' or 'edit'", StatusCode: http.StatusBadRequest}

func grantable(p domain.Permission) bool {
	return p == domain.PermissionRead || p == domain.PermissionEdit
}

// to mock service in tests
type BoardService interface {
	Create(user domain.User, title domain.BoardTitle) (domain.Board, error)
	List(user domain.User) ([]domain.Board, error)
	Detail(v Viewer, id domain.BoardId) (domain.BoardDetail, error)
	AccessList(v Viewer, id domain.BoardId) ([]domain.AccessGrant, error)
	Grant(v Viewer, id domain.BoardId, email domain.Email, perm domain.Permission) (domain.AccessGrant, error)
	CreateShare(v Viewer, id domain.BoardId, perm domain.Permission) (domain.ShareLink, error)
	Shared(v Viewer) (domain.BoardDetail, error)
	ShareLink(token domain.ShareToken) (domain.ShareLink, error)
	Rename(v Viewer, id domain.BoardId, title domain.BoardTitle) (domain.Board, error)
	SetThumbnail(v Viewer, id domain.BoardId, url string) (domain.Board, error)
	Delete(v Viewer, id domain.BoardId) error
	Revoke(v Viewer, id domain.BoardId, grantId int64) error
	ShareLinks(v Viewer, id domain.BoardId) ([]domain.ShareLink, error)
	DeleteShare(v Viewer, id domain.BoardId, shareId int64) error
}

type Board struct {
	storage BoardStorage
	access  *Access
}

type BoardStorage interface {
	AccessStorage
	CreateBoard(board domain.Board) (domain.Board, error)
	BoardsForUser(user domain.User) ([]domain.Board, error)
	Cards(boardId domain.BoardId) ([]domain.Card, error)
	AccessList(boardId domain.BoardId) ([]domain.AccessGrant, error)
	GrantAccess(grant domain.AccessGrant) (domain.AccessGrant, error)
	CreateShare(link domain.ShareLink) (domain.ShareLink, error)
	UpdateBoard(id domain.BoardId, patch domain.BoardPatch) (domain.Board, error)
	DeleteBoard(id domain.BoardId) error
	RevokeAccess(boardId domain.BoardId, grantId int64) error
	ShareLinks(boardId domain.BoardId) ([]domain.ShareLink, error)
	DeleteShare(boardId domain.BoardId, shareId int64) error
}

func NewBoard(storage BoardStorage, access *Access) *Board {
	return &Board{storage: storage, access: access}
}

func (b *Board) Create(user domain.User, title domain.BoardTitle) (domain.Board, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Board{}, errBlankTitle
	}
	board, err := b.storage.CreateBoard(domain.Board{Title: title, OwnerId: user.Id})
	if err != nil {
		return domain.Board{}, err
	}
	logger.Log.Info("board created", "board_id", board.Id, "owner_id", user.Id)
	return board, nil
}

func (b *Board) List(user domain.User) ([]domain.Board, error) {
	return b.storage.BoardsForUser(user)
}

func (b *Board) detail(board domain.Board, perm domain.Permission) (domain.BoardDetail, error) {
	cards, err := b.storage.Cards(board.Id)
	if err != nil {
		return domain.BoardDetail{}, err
	}
	return domain.BoardDetail{Board: board, Permission: perm, Cards: cards}, nil
}

func (b *Board) Detail(v Viewer, id domain.BoardId) (domain.BoardDetail, error) {
	board, perm, err := b.access.Require(v, id, domain.PermissionRead)
	if err != nil {
		return domain.BoardDetail{}, err
	}
	return b.detail(board, perm)
}

// AccessList is readable by every viewer of the board so collaborators can
// learn their own level.
func (b *Board) AccessList(v Viewer, id domain.BoardId) ([]domain.AccessGrant, error) {
	if _, _, err := b.access.Require(v, id, domain.PermissionRead); err != nil {
		return nil, err
	}
	return b.storage.AccessList(id)
}

func (b *Board) Grant(v Viewer, id domain.BoardId, email domain.Email, perm domain.Permission) (domain.AccessGrant, error) {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return domain.AccessGrant{}, err
	}
	if !grantable(perm) {
		return domain.AccessGrant{}, errBadPermission
	}
	return b.storage.GrantAccess(domain.AccessGrant{BoardId: id, Email: email, Permission: perm})
}

func (b *Board) CreateShare(v Viewer, id domain.BoardId, perm domain.Permission) (domain.ShareLink, error) {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return domain.ShareLink{}, err
	}
	if !grantable(perm) {
		return domain.ShareLink{}, errBadPermission
	}
	return b.storage.CreateShare(domain.ShareLink{BoardId: id, Token: uuid.NewString(), Permission: perm})
}

// Shared returns the board behind v's share token. A signed-in owner or
// collaborator keeps their own level if it is higher than the link's.
func (b *Board) Shared(v Viewer) (domain.BoardDetail, error) {
	link, err := b.storage.ShareLink(v.Token)
	if err != nil {
		return domain.BoardDetail{}, err
	}
	board, perm, err := b.access.Require(v, link.BoardId, domain.PermissionRead)
	if err != nil {
		return domain.BoardDetail{}, err
	}
	return b.detail(board, perm)
}

func (b *Board) ShareLink(token domain.ShareToken) (domain.ShareLink, error) {
	return b.storage.ShareLink(token)
}

// === Owner-only management ===

func (b *Board) Rename(v Viewer, id domain.BoardId, title domain.BoardTitle) (domain.Board, error) {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return domain.Board{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Board{}, errBlankTitle
	}
	return b.storage.UpdateBoard(id, domain.BoardPatch{Title: &title})
}

// SetThumbnail points the board at an uploaded image; an empty url clears it.
func (b *Board) SetThumbnail(v Viewer, id domain.BoardId, url string) (domain.Board, error) {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return domain.Board{}, err
	}
	return b.storage.UpdateBoard(id, domain.BoardPatch{ThumbnailURL: &url})
}

func (b *Board) Delete(v Viewer, id domain.BoardId) error {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return err
	}
	if err := b.storage.DeleteBoard(id); err != nil {
		return err
	}
	logger.Log.Info("board deleted", "board_id", id, "owner_id", v.User.Id)
	return nil
}

func (b *Board) Revoke(v Viewer, id domain.BoardId, grantId int64) error {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return err
	}
	return b.storage.RevokeAccess(id, grantId)
}

// ShareLinks exposes the tokens, so unlike the access list it is owner-only.
func (b *Board) ShareLinks(v Viewer, id domain.BoardId) ([]domain.ShareLink, error) {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return nil, err
	}
	return b.storage.ShareLinks(id)
}

func (b *Board) DeleteShare(v Viewer, id domain.BoardId, shareId int64) error {
	if _, _, err := b.access.Require(v, id, domain.PermissionOwner); err != nil {
		return err
	}
	return b.storage.DeleteShare(id, shareId)
}
