package service

import (
	"net/http"
	"testing"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardCreateAndList(t *testing.T) {
	f := newFixture(t)
	boards := NewBoard(f.storage, f.access)

	t.Run("title is trimmed", func(t *testing.T) {
		board, err := boards.Create(f.editor, "  plans ")
		require.NoError(t, err)
		assert.Equal(t, "plans", board.Title)
		assert.Equal(t, f.editor.Id, board.OwnerId)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := boards.Create(f.editor, "   ")
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
	})

	t.Run("list includes owned and granted boards", func(t *testing.T) {
		list, err := boards.List(f.editor)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, f.board.Id, list[0].Id)
		assert.Equal(t, "plans", list[1].Title)
	})
}

func TestBoardDetail(t *testing.T) {
	f := newFixture(t)
	boards := NewBoard(f.storage, f.access)
	_, err := f.storage.CreateCard(domain.Card{BoardId: f.board.Id, Kind: domain.CardKindText, Text: domain.Ptr("hello")})
	require.NoError(t, err)

	detail, err := boards.Detail(Viewer{User: &f.reader}, f.board.Id)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionRead, detail.Permission)
	assert.Equal(t, f.board.Title, detail.Title)
	require.Len(t, detail.Cards, 1)

	stranger := domain.User{Id: 50, Email: "x@example.com"}
	_, err = boards.Detail(Viewer{User: &stranger}, f.board.Id)
	assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
}

func TestBoardAccessManagement(t *testing.T) {
	f := newFixture(t)
	boards := NewBoard(f.storage, f.access)

	t.Run("collaborators can read the access list", func(t *testing.T) {
		list, err := boards.AccessList(Viewer{User: &f.reader}, f.board.Id)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("only the owner grants", func(t *testing.T) {
		_, err := boards.Grant(Viewer{User: &f.editor}, f.board.Id, "new@example.com", domain.PermissionRead)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))

		grant, err := boards.Grant(Viewer{User: &f.owner}, f.board.Id, "new@example.com", domain.PermissionEdit)
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionEdit, grant.Permission)
	})

	t.Run("owner level cannot be granted", func(t *testing.T) {
		_, err := boards.Grant(Viewer{User: &f.owner}, f.board.Id, "x@example.com", domain.PermissionOwner)
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
	})
}

func TestBoardShareLinks(t *testing.T) {
	f := newFixture(t)
	boards := NewBoard(f.storage, f.access)

	link, err := boards.CreateShare(Viewer{User: &f.owner}, f.board.Id, domain.PermissionEdit)
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token)
	assert.Equal(t, f.board.Id, link.BoardId)

	t.Run("non owner cannot share", func(t *testing.T) {
		_, err := boards.CreateShare(Viewer{User: &f.editor}, f.board.Id, domain.PermissionRead)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := boards.CreateShare(Viewer{User: &f.owner}, f.board.Id, domain.PermissionNone)
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
	})

	t.Run("shared board carries the link level", func(t *testing.T) {
		detail, err := boards.Shared(Viewer{Token: link.Token})
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionEdit, detail.Permission)
		assert.Equal(t, f.board.Id, detail.Id)
	})

	t.Run("signed in owner keeps owner level through a read link", func(t *testing.T) {
		detail, err := boards.Shared(Viewer{User: &f.owner, Token: f.readTok})
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionOwner, detail.Permission)
	})

	t.Run("share link lookup", func(t *testing.T) {
		got, err := boards.ShareLink(f.readTok)
		require.NoError(t, err)
		assert.Equal(t, domain.PermissionRead, got.Permission)
		assert.Equal(t, f.board.Id, got.BoardId)

		_, err = boards.ShareLink("unknown")
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestBoardOwnerManagement(t *testing.T) {
	f := newFixture(t)
	boards := NewBoard(f.storage, f.access)
	owner := Viewer{User: &f.owner}
	editor := Viewer{User: &f.editor}

	t.Run("only the owner manages the board", func(t *testing.T) {
		_, err := boards.Rename(editor, f.board.Id, "mine")
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
		_, err = boards.SetThumbnail(editor, f.board.Id, "/uploads/x.png")
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(boards.Delete(editor, f.board.Id)))
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(boards.Revoke(editor, f.board.Id, 1)))
		_, err = boards.ShareLinks(Viewer{Token: f.editTok}, f.board.Id)
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(boards.DeleteShare(editor, f.board.Id, 1)))
	})

	t.Run("rename trims and rejects blank titles", func(t *testing.T) {
		board, err := boards.Rename(owner, f.board.Id, " renamed ")
		require.NoError(t, err)
		assert.Equal(t, "renamed", board.Title)

		_, err = boards.Rename(owner, f.board.Id, " ")
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
	})

	t.Run("thumbnail is set and cleared", func(t *testing.T) {
		board, err := boards.SetThumbnail(owner, f.board.Id, "/uploads/1/t.png")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/1/t.png", board.ThumbnailURL)

		board, err = boards.SetThumbnail(owner, f.board.Id, "")
		require.NoError(t, err)
		assert.Empty(t, board.ThumbnailURL)
	})

	t.Run("revoking a grant drops the collaborator to none", func(t *testing.T) {
		list, err := boards.AccessList(owner, f.board.Id)
		require.NoError(t, err)
		var editorGrant int64
		for _, g := range list {
			if g.UserId == f.editor.Id {
				editorGrant = g.Id
			}
		}
		require.NotZero(t, editorGrant)

		require.NoError(t, boards.Revoke(owner, f.board.Id, editorGrant))
		assert.Equal(t, domain.PermissionNone, f.access.Permission(editor, f.board))
	})

	t.Run("share links are listed and revoked", func(t *testing.T) {
		links, err := boards.ShareLinks(owner, f.board.Id)
		require.NoError(t, err)
		require.Len(t, links, 2)

		require.NoError(t, boards.DeleteShare(owner, f.board.Id, links[0].Id))
		_, err = boards.Shared(Viewer{Token: links[0].Token})
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("delete removes the board", func(t *testing.T) {
		require.NoError(t, boards.Delete(owner, f.board.Id))
		_, err := boards.Detail(owner, f.board.Id)
		assert.True(t, errors.IsNotFound(err))
	})
}
