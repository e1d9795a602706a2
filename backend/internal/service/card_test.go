package service

import (
	"math"
	"net/http"
	"strings"
	"testing"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreate(t *testing.T) {
	f := newFixture(t)
	cards := NewCard(f.storage, f.access)
	editor := Viewer{User: &f.editor}

	t.Run("text card text is sanitized", func(t *testing.T) {
		card, err := cards.Create(editor, domain.Card{BoardId: f.board.Id, Text: domain.Ptr("<i>hi</i> & bye"), PositionX: 1, PositionY: 2})
		require.NoError(t, err)
		assert.Equal(t, domain.CardKindText, card.Kind)
		assert.Equal(t, "hi & bye", *card.Text)
		assert.NotZero(t, card.Id)
		assert.NotNil(t, card.UpdatedAt)
	})

	t.Run("text card without text gets empty text", func(t *testing.T) {
		card, err := cards.Create(editor, domain.Card{BoardId: f.board.Id, Kind: domain.CardKindText})
		require.NoError(t, err)
		require.NotNil(t, card.Text)
		assert.Equal(t, "", *card.Text)
	})

	t.Run("image card needs a url", func(t *testing.T) {
		_, err := cards.Create(editor, domain.Card{BoardId: f.board.Id, Kind: domain.CardKindImage})
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))

		card, err := cards.Create(editor, domain.Card{BoardId: f.board.Id, Kind: domain.CardKindImage, ImageURL: domain.Ptr("/uploads/1/a.png"), Text: domain.Ptr("ignored")})
		require.NoError(t, err)
		assert.Nil(t, card.Text)
		assert.Nil(t, card.Width)
	})

	testCases := []struct {
		name       string
		viewer     Viewer
		card       domain.Card
		wantStatus int
	}{
		{name: "reader is forbidden", viewer: Viewer{User: &f.reader}, card: domain.Card{BoardId: f.board.Id}, wantStatus: http.StatusForbidden},
		{name: "read link is forbidden", viewer: Viewer{Token: f.readTok}, card: domain.Card{BoardId: f.board.Id}, wantStatus: http.StatusForbidden},
		{name: "edit link may create", viewer: Viewer{Token: f.editTok}, card: domain.Card{BoardId: f.board.Id}},
		{name: "unknown kind", viewer: editor, card: domain.Card{BoardId: f.board.Id, Kind: "video"}, wantStatus: http.StatusBadRequest},
		{name: "non positive size", viewer: editor, card: domain.Card{BoardId: f.board.Id, Width: domain.Ptr(0.0)}, wantStatus: http.StatusBadRequest},
		{name: "non finite position", viewer: editor, card: domain.Card{BoardId: f.board.Id, PositionX: math.Inf(1)}, wantStatus: http.StatusBadRequest},
		{name: "text too long", viewer: editor, card: domain.Card{BoardId: f.board.Id, Text: domain.Ptr(strings.Repeat("a", maxTextLength+1))}, wantStatus: http.StatusBadRequest},
		{name: "missing board", viewer: editor, card: domain.Card{BoardId: 404}, wantStatus: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := cards.Create(tc.viewer, tc.card)
			if tc.wantStatus == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.wantStatus, errors.StatusCode(err))
		})
	}
}

func TestCardUpdate(t *testing.T) {
	f := newFixture(t)
	cards := NewCard(f.storage, f.access)
	editor := Viewer{User: &f.editor}

	text, err := cards.Create(editor, domain.Card{BoardId: f.board.Id, Text: domain.Ptr("a")})
	require.NoError(t, err)
	img, err := cards.Create(editor, domain.Card{BoardId: f.board.Id, Kind: domain.CardKindImage, ImageURL: domain.Ptr("/x.png")})
	require.NoError(t, err)

	t.Run("partial geometry update", func(t *testing.T) {
		updated, err := cards.Update(editor, img.Id, domain.CardPatch{PositionX: domain.Ptr(40.0), Width: domain.Ptr(320.0), Height: domain.Ptr(240.0)})
		require.NoError(t, err)
		assert.Equal(t, 40.0, updated.PositionX)
		assert.Equal(t, 320.0, *updated.Width)
		assert.Equal(t, 240.0, *updated.Height)
	})

	t.Run("text update is sanitized", func(t *testing.T) {
		updated, err := cards.Update(editor, text.Id, domain.CardPatch{Text: domain.Ptr("<b>b</b>")})
		require.NoError(t, err)
		assert.Equal(t, "b", *updated.Text)
	})

	t.Run("empty patch returns the card", func(t *testing.T) {
		got, err := cards.Update(editor, text.Id, domain.CardPatch{})
		require.NoError(t, err)
		assert.Equal(t, text.Id, got.Id)
	})

	t.Run("image cards have no text", func(t *testing.T) {
		_, err := cards.Update(editor, img.Id, domain.CardPatch{Text: domain.Ptr("x")})
		assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
	})

	t.Run("reader is forbidden", func(t *testing.T) {
		_, err := cards.Update(Viewer{User: &f.reader}, text.Id, domain.CardPatch{PositionX: domain.Ptr(1.0)})
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	})

	t.Run("edit link of another board is forbidden", func(t *testing.T) {
		other, err := cards.Create(Viewer{User: &f.owner}, domain.Card{BoardId: f.other.Id})
		require.NoError(t, err)
		_, err = cards.Update(Viewer{Token: f.editTok}, other.Id, domain.CardPatch{PositionX: domain.Ptr(1.0)})
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err))
	})

	t.Run("missing card", func(t *testing.T) {
		_, err := cards.Update(editor, 999, domain.CardPatch{PositionX: domain.Ptr(1.0)})
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestCardListAndDelete(t *testing.T) {
	f := newFixture(t)
	cards := NewCard(f.storage, f.access)
	editor := Viewer{User: &f.editor}

	card, err := cards.Create(editor, domain.Card{BoardId: f.board.Id})
	require.NoError(t, err)

	list, err := cards.List(Viewer{Token: f.readTok}, f.board.Id)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusForbidden, errors.StatusCode(cards.Delete(Viewer{User: &f.reader}, card.Id)))
	require.NoError(t, cards.Delete(editor, card.Id))
	assert.True(t, errors.IsNotFound(cards.Delete(editor, card.Id)))

	list, err = cards.List(editor, f.board.Id)
	require.NoError(t, err)
	assert.Empty(t, list)
}
