// Package mem is the in-memory authoritative store behind the reference
// persistence service. State lives for the lifetime of the process.
package mem

import (
	"cmp"
	"context"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
)

var (
	errUserNotFound  = &errors.ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusNotFound}
	errBoardNotFound = &errors.ErrorWithStatusCode{Message: "Board not found", StatusCode: http.StatusNotFound}
	errCardNotFound  = &errors.ErrorWithStatusCode{Message: "Card not found", StatusCode: http.StatusNotFound}
	errShareNotFound = &errors.ErrorWithStatusCode{Message: "Invalid or expired share link", StatusCode: http.StatusNotFound}
	errGrantNotFound = &errors.ErrorWithStatusCode{Message: "No access entry found", StatusCode: http.StatusNotFound}
	errEmailTaken    = &errors.ErrorWithStatusCode{Message: "Email already registered", StatusCode: http.StatusConflict}
	errTokenTaken    = &errors.ErrorWithStatusCode{Message: "Share token already exists", StatusCode: http.StatusConflict}
)

type Storage struct {
	mu  sync.RWMutex
	now func() time.Time

	lastUserId  domain.UserId
	lastBoardId domain.BoardId
	lastCardId  domain.CardId
	lastGrantId int64
	lastShareId int64

	users  map[domain.UserId]domain.Account
	emails map[string]domain.UserId
	boards map[domain.BoardId]domain.Board
	cards  map[domain.CardId]domain.Card
	grants map[domain.BoardId][]domain.AccessGrant
	shares map[domain.ShareToken]domain.ShareLink
}

func New() *Storage {
	return &Storage{
		now:    time.Now,
		users:  make(map[domain.UserId]domain.Account),
		emails: make(map[string]domain.UserId),
		boards: make(map[domain.BoardId]domain.Board),
		cards:  make(map[domain.CardId]domain.Card),
		grants: make(map[domain.BoardId][]domain.AccessGrant),
		shares: make(map[domain.ShareToken]domain.ShareLink),
	}
}

func normalizeEmail(email domain.Email) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Storage) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Cleanup is a no-op; state goes away with the process.
func (s *Storage) Cleanup() error {
	return nil
}

// === Users ===

func (s *Storage) SaveUser(email domain.Email, passHash string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeEmail(email)
	if _, taken := s.emails[key]; taken {
		return domain.User{}, errEmailTaken
	}
	s.lastUserId++
	user := domain.User{Id: s.lastUserId, Email: key}
	s.users[user.Id] = domain.Account{User: user, PassHash: passHash}
	s.emails[key] = user.Id
	return user, nil
}

func (s *Storage) AccountByEmail(email domain.Email) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[normalizeEmail(email)]
	if !ok {
		return domain.Account{}, errUserNotFound
	}
	return s.users[id], nil
}

func (s *Storage) User(id domain.UserId) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.users[id]
	if !ok {
		return domain.User{}, errUserNotFound
	}
	return account.User, nil
}

// === Boards ===

func (s *Storage) CreateBoard(board domain.Board) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastBoardId++
	board.Id = s.lastBoardId
	s.boards[board.Id] = board
	return board, nil
}

func (s *Storage) Board(id domain.BoardId) (domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	board, ok := s.boards[id]
	if !ok {
		return domain.Board{}, errBoardNotFound
	}
	return board, nil
}

// BoardsForUser lists boards the user owns or was granted, ordered by id.
func (s *Storage) BoardsForUser(user domain.User) ([]domain.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email := normalizeEmail(user.Email)
	boards := []domain.Board{}
	for id, board := range s.boards {
		if board.OwnerId == user.Id || grantFor(s.grants[id], user.Id, email) != nil {
			boards = append(boards, board)
		}
	}
	slices.SortFunc(boards, func(a, b domain.Board) int { return cmp.Compare(a.Id, b.Id) })
	return boards, nil
}

func (s *Storage) UpdateBoard(id domain.BoardId, patch domain.BoardPatch) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, ok := s.boards[id]
	if !ok {
		return domain.Board{}, errBoardNotFound
	}
	board = patch.Apply(board)
	s.boards[id] = board
	return board, nil
}

// DeleteBoard removes the board with its cards, grants and share links.
func (s *Storage) DeleteBoard(id domain.BoardId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[id]; !ok {
		return errBoardNotFound
	}
	delete(s.boards, id)
	delete(s.grants, id)
	for cardId, card := range s.cards {
		if card.BoardId == id {
			delete(s.cards, cardId)
		}
	}
	for token, link := range s.shares {
		if link.BoardId == id {
			delete(s.shares, token)
		}
	}
	return nil
}

// === Cards ===

func cloneCard(c domain.Card) domain.Card {
	if c.Text != nil {
		c.Text = domain.Ptr(*c.Text)
	}
	if c.ImageURL != nil {
		c.ImageURL = domain.Ptr(*c.ImageURL)
	}
	if c.Width != nil {
		c.Width = domain.Ptr(*c.Width)
	}
	if c.Height != nil {
		c.Height = domain.Ptr(*c.Height)
	}
	if c.UpdatedAt != nil {
		c.UpdatedAt = domain.Ptr(*c.UpdatedAt)
	}
	return c
}

func (s *Storage) Cards(boardId domain.BoardId) ([]domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.boards[boardId]; !ok {
		return nil, errBoardNotFound
	}
	cards := []domain.Card{}
	for _, card := range s.cards {
		if card.BoardId == boardId {
			cards = append(cards, cloneCard(card))
		}
	}
	slices.SortFunc(cards, func(a, b domain.Card) int { return cmp.Compare(a.Id, b.Id) })
	return cards, nil
}

func (s *Storage) Card(id domain.CardId) (domain.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return domain.Card{}, errCardNotFound
	}
	return cloneCard(card), nil
}

// CreateCard assigns the id and modification time of card.
func (s *Storage) CreateCard(card domain.Card) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[card.BoardId]; !ok {
		return domain.Card{}, errBoardNotFound
	}
	s.lastCardId++
	card = cloneCard(card)
	card.Id = s.lastCardId
	card.UpdatedAt = domain.Ptr(s.now().UTC())
	s.cards[card.Id] = card
	return cloneCard(card), nil
}

func (s *Storage) UpdateCard(id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return domain.Card{}, errCardNotFound
	}
	card = patch.Apply(card)
	card.UpdatedAt = domain.Ptr(s.now().UTC())
	s.cards[id] = card
	return cloneCard(card), nil
}

func (s *Storage) DeleteCard(id domain.CardId) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return errCardNotFound
	}
	delete(s.cards, id)
	return nil
}

// === Access ===

func grantFor(grants []domain.AccessGrant, userId domain.UserId, email string) *domain.AccessGrant {
	for i := range grants {
		if userId != 0 && grants[i].UserId == userId {
			return &grants[i]
		}
	}
	if email == "" {
		return nil
	}
	for i := range grants {
		if normalizeEmail(grants[i].Email) == email {
			return &grants[i]
		}
	}
	return nil
}

func (s *Storage) AccessList(boardId domain.BoardId) ([]domain.AccessGrant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.boards[boardId]; !ok {
		return nil, errBoardNotFound
	}
	return append([]domain.AccessGrant{}, s.grants[boardId]...), nil
}

// GrantAccess adds a grant or replaces the permission of an existing grant
// for the same email. The user id is filled in when the email is registered.
func (s *Storage) GrantAccess(grant domain.AccessGrant) (domain.AccessGrant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[grant.BoardId]; !ok {
		return domain.AccessGrant{}, errBoardNotFound
	}
	grant.Email = normalizeEmail(grant.Email)
	if id, ok := s.emails[grant.Email]; ok {
		grant.UserId = id
	}

	grants := s.grants[grant.BoardId]
	if existing := grantFor(grants, 0, grant.Email); existing != nil {
		existing.Permission = grant.Permission
		existing.UserId = grant.UserId
		return *existing, nil
	}
	s.lastGrantId++
	grant.Id = s.lastGrantId
	s.grants[grant.BoardId] = append(grants, grant)
	return grant, nil
}

func (s *Storage) RevokeAccess(boardId domain.BoardId, grantId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	grants := s.grants[boardId]
	for i := range grants {
		if grants[i].Id == grantId {
			s.grants[boardId] = slices.Delete(slices.Clone(grants), i, i+1)
			return nil
		}
	}
	return errGrantNotFound
}

// Grant returns the grant matching the user by id, then by email.
func (s *Storage) Grant(boardId domain.BoardId, user domain.User) (domain.AccessGrant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grant := grantFor(s.grants[boardId], user.Id, normalizeEmail(user.Email))
	if grant == nil {
		return domain.AccessGrant{}, false
	}
	return *grant, true
}

// === Share links ===

func (s *Storage) CreateShare(link domain.ShareLink) (domain.ShareLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boards[link.BoardId]; !ok {
		return domain.ShareLink{}, errBoardNotFound
	}
	if _, ok := s.shares[link.Token]; ok {
		return domain.ShareLink{}, errTokenTaken
	}
	s.lastShareId++
	link.Id = s.lastShareId
	s.shares[link.Token] = link
	return link, nil
}

// ShareLinks lists the links of a board ordered by id.
func (s *Storage) ShareLinks(boardId domain.BoardId) ([]domain.ShareLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.boards[boardId]; !ok {
		return nil, errBoardNotFound
	}
	links := []domain.ShareLink{}
	for _, link := range s.shares {
		if link.BoardId == boardId {
			links = append(links, link)
		}
	}
	slices.SortFunc(links, func(a, b domain.ShareLink) int { return cmp.Compare(a.Id, b.Id) })
	return links, nil
}

func (s *Storage) DeleteShare(boardId domain.BoardId, shareId int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, link := range s.shares {
		if link.BoardId == boardId && link.Id == shareId {
			delete(s.shares, token)
			return nil
		}
	}
	return errShareNotFound
}

func (s *Storage) ShareLink(token domain.ShareToken) (domain.ShareLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.shares[token]
	if !ok {
		return domain.ShareLink{}, errShareNotFound
	}
	return link, nil
}
