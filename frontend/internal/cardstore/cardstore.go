// Package cardstore holds the session cache of cards for the open board.
//
// The collection is treated as an immutable value: every mutation builds a
// new slice and swaps it in, so readers holding an older snapshot never see
// it change and views can detect updates by comparing versions.
package cardstore

import (
	"errors"
	"fmt"
	"sync"

	"github.com/brainboard/brainboard/shared/domain"
)

var (
	ErrCardNotFound  = errors.New("card not found")
	ErrDuplicateCard = errors.New("card already exists")
)

// Cards is an immutable snapshot. Callers must not modify it.
type Cards []domain.Card

// Find returns the card with id and whether it exists.
func (cs Cards) Find(id domain.CardId) (domain.Card, bool) {
	for _, c := range cs {
		if c.Id == id {
			return c, true
		}
	}
	return domain.Card{}, false
}

// Replace builds a collection from cards. Later duplicates win.
func Replace(cards []domain.Card) Cards {
	out := make(Cards, 0, len(cards))
	index := make(map[domain.CardId]int, len(cards))
	for _, c := range cards {
		if i, ok := index[c.Id]; ok {
			out[i] = c
			continue
		}
		index[c.Id] = len(out)
		out = append(out, c)
	}
	return out
}

// Patch returns a new collection with patch applied to card id.
func Patch(cs Cards, id domain.CardId, patch domain.CardPatch) (Cards, error) {
	out := make(Cards, len(cs))
	found := false
	for i, c := range cs {
		if c.Id == id {
			c = patch.Apply(c)
			found = true
		}
		out[i] = c
	}
	if !found {
		return cs, fmt.Errorf("patch card %d: %w", id, ErrCardNotFound)
	}
	return out, nil
}

// Insert returns a new collection with card appended.
func Insert(cs Cards, card domain.Card) (Cards, error) {
	if _, ok := cs.Find(card.Id); ok {
		return cs, fmt.Errorf("insert card %d: %w", card.Id, ErrDuplicateCard)
	}
	out := make(Cards, len(cs), len(cs)+1)
	copy(out, cs)
	return append(out, card), nil
}

// Remove returns a new collection without card id.
func Remove(cs Cards, id domain.CardId) (Cards, error) {
	out := make(Cards, 0, len(cs))
	for _, c := range cs {
		if c.Id != id {
			out = append(out, c)
		}
	}
	if len(out) == len(cs) {
		return cs, fmt.Errorf("remove card %d: %w", id, ErrCardNotFound)
	}
	return out, nil
}

// Confirm folds the server's copy of a card back in after a write. Only the
// fields named by sent are taken, plus UpdatedAt, and only while the local
// card still holds exactly what was sent; a newer local edit wins and is
// confirmed by its own write. The bool reports whether anything was taken.
func Confirm(cs Cards, confirmed domain.Card, sent domain.CardPatch) (Cards, bool) {
	out := make(Cards, len(cs))
	copy(out, cs)
	for i, c := range out {
		if c.Id != confirmed.Id {
			continue
		}
		if !holds(c, sent) {
			return cs, false
		}
		c = serverFields(confirmed, sent).Apply(c)
		c.UpdatedAt = confirmed.UpdatedAt
		out[i] = c
		return out, true
	}
	return cs, false
}

// holds reports whether every field set in p has the same value on c.
func holds(c domain.Card, p domain.CardPatch) bool {
	return sameString(p.Text, c.Text) &&
		sameFloat(p.PositionX, &c.PositionX) &&
		sameFloat(p.PositionY, &c.PositionY) &&
		sameFloat(p.Width, c.Width) &&
		sameFloat(p.Height, c.Height)
}

func sameString(want, got *string) bool {
	return want == nil || (got != nil && *got == *want)
}

func sameFloat(want, got *float64) bool {
	return want == nil || (got != nil && *got == *want)
}

// serverFields picks the fields of confirmed that sent touched. The server
// may have normalized them, e.g. sanitized text.
func serverFields(confirmed domain.Card, sent domain.CardPatch) domain.CardPatch {
	var p domain.CardPatch
	if sent.Text != nil {
		p.Text = confirmed.Text
	}
	if sent.PositionX != nil {
		p.PositionX = &confirmed.PositionX
	}
	if sent.PositionY != nil {
		p.PositionY = &confirmed.PositionY
	}
	if sent.Width != nil {
		p.Width = confirmed.Width
	}
	if sent.Height != nil {
		p.Height = confirmed.Height
	}
	return p
}

// Store is the single shared mutable resource of a board session.
type Store struct {
	mu      sync.RWMutex
	cards   Cards
	version uint64
}

func New(cards []domain.Card) *Store {
	return &Store{cards: Replace(cards)}
}

// Snapshot returns the current collection and its version.
func (s *Store) Snapshot() (Cards, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cards, s.version
}

func (s *Store) Cards() Cards {
	cards, _ := s.Snapshot()
	return cards
}

func (s *Store) Version() uint64 {
	_, v := s.Snapshot()
	return v
}

func (s *Store) Get(id domain.CardId) (domain.Card, bool) {
	return s.Cards().Find(id)
}

// ReplaceAll overwrites the whole collection, discarding optimistic edits.
func (s *Store) ReplaceAll(cards []domain.Card) {
	next := Replace(cards)
	s.mu.Lock()
	s.cards = next
	s.version++
	s.mu.Unlock()
}

func (s *Store) PatchOne(id domain.CardId, patch domain.CardPatch) error {
	return s.swap(func(cs Cards) (Cards, error) { return Patch(cs, id, patch) })
}

func (s *Store) InsertOne(card domain.Card) error {
	return s.swap(func(cs Cards) (Cards, error) { return Insert(cs, card) })
}

func (s *Store) RemoveOne(id domain.CardId) error {
	return s.swap(func(cs Cards) (Cards, error) { return Remove(cs, id) })
}

// ConfirmOne applies Confirm atomically against the current collection.
func (s *Store) ConfirmOne(confirmed domain.Card, sent domain.CardPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, ok := Confirm(s.cards, confirmed, sent)
	if ok {
		s.cards = next
		s.version++
	}
	return ok
}

func (s *Store) swap(mutate func(Cards) (Cards, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := mutate(s.cards)
	if err != nil {
		return err
	}
	s.cards = next
	s.version++
	return nil
}
