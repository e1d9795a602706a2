// Package permission derives the viewer's effective capability on a board.
//
// The gate only drives interactivity. The persistence service re-checks
// every write and remains the authorization boundary.
package permission

import (
	"strings"

	"github.com/brainboard/brainboard/shared/domain"
)

type Gate struct {
	level domain.Permission
}

// ForBoard resolves an authenticated board view: owner, then the access list
// by user id, then by case-insensitive email. No match is read-only.
func ForBoard(user *domain.User, board domain.Board, access []domain.AccessGrant) Gate {
	if user == nil {
		return Gate{level: domain.PermissionRead}
	}
	if user.Id == board.OwnerId {
		return Gate{level: domain.PermissionOwner}
	}
	if g, ok := findGrant(*user, access); ok {
		return Gate{level: normalize(g.Permission)}
	}
	return Gate{level: domain.PermissionRead}
}

// ForShare resolves a link view from the permission attached to the token.
// An owner opening their own link still gets owner rights.
func ForShare(user *domain.User, board domain.Board, linkPermission domain.Permission) Gate {
	if user != nil && user.Id == board.OwnerId {
		return Gate{level: domain.PermissionOwner}
	}
	return Gate{level: normalize(linkPermission)}
}

// Fixed builds a gate with a known level, used by tests and previews.
func Fixed(level domain.Permission) Gate {
	return Gate{level: domain.ParsePermission(string(level))}
}

func (g Gate) Level() domain.Permission {
	return g.level
}

func (g Gate) CanEdit() bool {
	return g.level.CanEdit()
}

func findGrant(user domain.User, access []domain.AccessGrant) (domain.AccessGrant, bool) {
	for _, g := range access {
		if g.UserId != 0 && g.UserId == user.Id {
			return g, true
		}
	}
	if user.Email == "" {
		return domain.AccessGrant{}, false
	}
	for _, g := range access {
		if strings.EqualFold(strings.TrimSpace(g.Email), strings.TrimSpace(user.Email)) {
			return g, true
		}
	}
	return domain.AccessGrant{}, false
}

// normalize keeps the gate fail-closed to read: a grant can never name
// owner, and anything unrecognised is read.
func normalize(p domain.Permission) domain.Permission {
	if p == domain.PermissionEdit {
		return domain.PermissionEdit
	}
	return domain.PermissionRead
}
