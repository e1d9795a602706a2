package service

import (
	"net/http"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
)

var errForbidden = &errors.ErrorWithStatusCode{Message: "Forbidden", StatusCode: http.StatusForbidden}

// Viewer is whoever performs a request: a signed-in user, the holder of a
// share link, or both.
type Viewer struct {
	User  *domain.User
	Token domain.ShareToken
}

type AccessStorage interface {
	Board(id domain.BoardId) (domain.Board, error)
	Grant(boardId domain.BoardId, user domain.User) (domain.AccessGrant, bool)
	ShareLink(token domain.ShareToken) (domain.ShareLink, error)
}

// Access is the authorization boundary for every board operation.
type Access struct {
	storage AccessStorage
}

func NewAccess(storage AccessStorage) *Access {
	return &Access{storage}
}

func rank(p domain.Permission) int {
	switch p {
	case domain.PermissionOwner:
		return 3
	case domain.PermissionEdit:
		return 2
	case domain.PermissionRead:
		return 1
	}
	return 0
}

// Permission resolves the level of v on board. Ownership is checked first,
// then grants by user id and by email, then the share link if it belongs to
// the same board. The highest level wins.
func (a *Access) Permission(v Viewer, board domain.Board) domain.Permission {
	perm := domain.PermissionNone
	if v.User != nil {
		if board.OwnerId == v.User.Id {
			return domain.PermissionOwner
		}
		if grant, ok := a.storage.Grant(board.Id, *v.User); ok {
			perm = domain.ParsePermission(string(grant.Permission))
		}
	}
	if v.Token != "" {
		if link, err := a.storage.ShareLink(v.Token); err == nil && link.BoardId == board.Id {
			if linkPerm := domain.ParsePermission(string(link.Permission)); rank(linkPerm) > rank(perm) {
				perm = linkPerm
			}
		}
	}
	return perm
}

// Require loads the board and fails with 403 unless v holds at least min.
func (a *Access) Require(v Viewer, boardId domain.BoardId, min domain.Permission) (domain.Board, domain.Permission, error) {
	board, err := a.storage.Board(boardId)
	if err != nil {
		return domain.Board{}, domain.PermissionNone, err
	}
	perm := a.Permission(v, board)
	if rank(perm) < rank(min) {
		return domain.Board{}, perm, errForbidden
	}
	return board, perm, nil
}
