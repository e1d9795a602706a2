package service

import (
	"math"
	"net/http"
	"unicode/utf8"

	"github.com/brainboard/brainboard/backend/internal/service/utils"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
)

const maxTextLength = 10000

type CardService interface {
	List(v Viewer, boardId domain.BoardId) ([]domain.Card, error)
	Create(v Viewer, card domain.Card) (domain.Card, error)
	Update(v Viewer, id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	Delete(v Viewer, id domain.CardId) error
}

type Card struct {
	storage CardStorage
	access  *Access
}

type CardStorage interface {
	Cards(boardId domain.BoardId) ([]domain.Card, error)
	Card(id domain.CardId) (domain.Card, error)
	CreateCard(card domain.Card) (domain.Card, error)
	UpdateCard(id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	DeleteCard(id domain.CardId) error
}

func NewCard(storage CardStorage, access *Access) *Card {
	return &Card{storage: storage, access: access}
}

func badRequest(msg string) error {
	return &errors.ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest}
}

func finite(vs ...*float64) bool {
	for _, v := range vs {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return false
		}
	}
	return true
}

func positive(vs ...*float64) bool {
	for _, v := range vs {
		if v != nil && *v <= 0 {
			return false
		}
	}
	return true
}

func cleanText(text string) (string, error) {
	if utf8.RuneCountInString(text) > maxTextLength {
		return "", badRequest("Text is too long")
	}
	return utils.SanitizeText(text), nil
}

func (c *Card) List(v Viewer, boardId domain.BoardId) ([]domain.Card, error) {
	if _, _, err := c.access.Require(v, boardId, domain.PermissionRead); err != nil {
		return nil, err
	}
	return c.storage.Cards(boardId)
}

// Create stores a new card. Text cards always carry text, possibly empty;
// image cards need a URL.
func (c *Card) Create(v Viewer, card domain.Card) (domain.Card, error) {
	if _, _, err := c.access.Require(v, card.BoardId, domain.PermissionEdit); err != nil {
		return domain.Card{}, err
	}
	if !finite(&card.PositionX, &card.PositionY, card.Width, card.Height) {
		return domain.Card{}, badRequest("Position must be finite")
	}
	if !positive(card.Width, card.Height) {
		return domain.Card{}, badRequest("Size must be positive")
	}

	switch card.Kind {
	case domain.CardKindImage:
		if card.ImageURL == nil || *card.ImageURL == "" {
			return domain.Card{}, badRequest("Image URL is required")
		}
		card.Text = nil
	case domain.CardKindText, "":
		card.Kind = domain.CardKindText
		text := ""
		if card.Text != nil {
			var err error
			if text, err = cleanText(*card.Text); err != nil {
				return domain.Card{}, err
			}
		}
		card.Text = &text
		card.ImageURL = nil
	default:
		return domain.Card{}, badRequest("Unknown card kind")
	}
	return c.storage.CreateCard(card)
}

func (c *Card) Update(v Viewer, id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	card, err := c.storage.Card(id)
	if err != nil {
		return domain.Card{}, err
	}
	if _, _, err := c.access.Require(v, card.BoardId, domain.PermissionEdit); err != nil {
		return domain.Card{}, err
	}
	if patch.IsEmpty() {
		return card, nil
	}
	if !finite(patch.PositionX, patch.PositionY, patch.Width, patch.Height) {
		return domain.Card{}, badRequest("Position must be finite")
	}
	if !positive(patch.Width, patch.Height) {
		return domain.Card{}, badRequest("Size must be positive")
	}
	if patch.Text != nil {
		if card.IsImage() {
			return domain.Card{}, badRequest("Image cards have no text")
		}
		text, err := cleanText(*patch.Text)
		if err != nil {
			return domain.Card{}, err
		}
		patch.Text = &text
	}
	return c.storage.UpdateCard(id, patch)
}

func (c *Card) Delete(v Viewer, id domain.CardId) error {
	card, err := c.storage.Card(id)
	if err != nil {
		return err
	}
	if _, _, err := c.access.Require(v, card.BoardId, domain.PermissionEdit); err != nil {
		return err
	}
	return c.storage.DeleteCard(id)
}
