// Package canvas composes the board view: it loads a board, resolves the
// viewer's permission and owns the card store, viewport, per-card gesture
// controllers and the staleness detector for as long as the view is open.
package canvas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/brainboard/brainboard/frontend/internal/cardstore"
	"github.com/brainboard/brainboard/frontend/internal/gesture"
	"github.com/brainboard/brainboard/frontend/internal/permission"
	"github.com/brainboard/brainboard/frontend/internal/session"
	"github.com/brainboard/brainboard/frontend/internal/staleness"
	"github.com/brainboard/brainboard/frontend/internal/viewport"
	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/brainboard/brainboard/shared/metrics"
)

var (
	ErrReadOnly   = gesture.ErrReadOnly
	ErrEmptyImage = errors.New("image url is empty")
)

// Prober reports the natural pixel size of an image.
type Prober interface {
	NaturalSize(ctx context.Context, url string) (int, int, error)
}

type View struct {
	remote  Remote
	session *session.Session
	cfg     config.Public
	log     *slog.Logger

	mu          sync.Mutex
	board       domain.Board
	gate        permission.Gate
	controllers map[domain.CardId]*gesture.Controller
	stop        context.CancelFunc
	closed      bool

	store    *cardstore.Store
	viewport *viewport.Viewport
	detector *staleness.Detector
	inflight *gesture.Inflight
}

// Open loads the board behind remote. Failing to load it is terminal for the
// view; nothing else about opening can fail.
func Open(ctx context.Context, remote Remote, s *session.Session, cfg config.Public) (*View, error) {
	detail, err := remote.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}

	v := &View{
		remote:      remote,
		session:     s,
		cfg:         cfg,
		log:         logger.Component("canvas").With("board_id", detail.Id),
		board:       detail.Board,
		controllers: make(map[domain.CardId]*gesture.Controller),
		store:       cardstore.New(detail.Cards),
		viewport:    viewport.New(cfg.Canvas),
		inflight:    &gesture.Inflight{},
	}
	v.gate = remote.Gate(ctx, s.User(), detail.Board)
	v.detector = staleness.New(remote.Cards, func() []domain.Card { return v.store.Cards() }, cfg.PollInterval)

	v.log.Info("board opened", "cards", len(detail.Cards), "permission", v.gate.Level())
	return v, nil
}

func (v *View) Board() domain.Board {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.board
}

func (v *View) Permission() domain.Permission {
	return v.gate.Level()
}

func (v *View) Editable() bool {
	return v.gate.CanEdit()
}

func (v *View) Store() *cardstore.Store {
	return v.store
}

func (v *View) Viewport() *viewport.Viewport {
	return v.viewport
}

func (v *View) Cards() cardstore.Cards {
	return v.store.Cards()
}

// Controller returns the gesture controller of a rendered card. Controllers
// are kept for the card's lifetime so one-shot state like auto-fit survives
// re-renders.
func (v *View) Controller(id domain.CardId) *gesture.Controller {
	v.mu.Lock()
	defer v.mu.Unlock()
	if c, ok := v.controllers[id]; ok {
		return c
	}
	c := gesture.New(id, gesture.Deps{
		Store:     v.store,
		View:      v.viewport,
		Gate:      v.gate,
		Persister: v.remote,
		Canvas:    v.cfg.Canvas,
		Inflight:  v.inflight,
		Ctx:       context.Background(),
		Log:       v.log,
	})
	v.controllers[id] = c
	return c
}

// CanvasContextMenu handles a right click on the canvas background. Cards
// open their own menu through their controller.
func (v *View) CanvasContextMenu(clientX, clientY float64) (gesture.Menu, bool) {
	if !v.Editable() {
		return gesture.Menu{}, false
	}
	return gesture.Menu{
		Screen: viewport.Point{X: clientX, Y: clientY},
		Board:  v.viewport.ScreenToBoard(clientX, clientY),
	}, true
}

// === Create / delete ===
// These wait for the service: cards enter and leave the store only after
// the service confirms.

func (v *View) CreateTextCard(ctx context.Context, at viewport.Point) (domain.Card, error) {
	return v.create(ctx, api.CreateCardRequest{Kind: domain.CardKindText, PositionX: at.X, PositionY: at.Y})
}

func (v *View) CreateImageCard(ctx context.Context, imageURL string, at viewport.Point) (domain.Card, error) {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return domain.Card{}, ErrEmptyImage
	}
	return v.create(ctx, api.CreateCardRequest{Kind: domain.CardKindImage, ImageURL: imageURL, PositionX: at.X, PositionY: at.Y})
}

// UploadImageCard uploads r and places an image card pointing at the
// stored file.
func (v *View) UploadImageCard(ctx context.Context, filename string, r io.Reader, at viewport.Point) (domain.Card, error) {
	if !v.Editable() {
		return domain.Card{}, ErrReadOnly
	}
	url, err := v.remote.UploadImage(ctx, filename, r)
	if err != nil {
		return domain.Card{}, fmt.Errorf("upload image: %w", err)
	}
	return v.CreateImageCard(ctx, url, at)
}

func (v *View) create(ctx context.Context, req api.CreateCardRequest) (domain.Card, error) {
	if !v.Editable() {
		return domain.Card{}, ErrReadOnly
	}
	req.PositionX, req.PositionY = clampToBoard(req.PositionX, req.PositionY, v.viewport.BoardSize())

	card, err := v.remote.CreateCard(ctx, req)
	if err != nil {
		return domain.Card{}, fmt.Errorf("create card: %w", err)
	}
	// A concurrent refresh may already have brought the card in.
	if err := v.store.InsertOne(card); err != nil && !errors.Is(err, cardstore.ErrDuplicateCard) {
		return domain.Card{}, err
	}
	v.log.Debug("card created", "card_id", card.Id, "kind", card.Kind)
	return card, nil
}

func (v *View) DeleteCard(ctx context.Context, id domain.CardId) error {
	if !v.Editable() {
		return ErrReadOnly
	}
	if err := v.remote.DeleteCard(ctx, id); err != nil {
		return fmt.Errorf("delete card %d: %w", id, err)
	}
	if err := v.store.RemoveOne(id); err != nil && !errors.Is(err, cardstore.ErrCardNotFound) {
		return err
	}
	v.mu.Lock()
	delete(v.controllers, id)
	v.mu.Unlock()
	v.log.Debug("card deleted", "card_id", id)
	return nil
}

// === Sync ===

// Refresh replaces the whole store with the service's state and clears the
// stale flag. Unconfirmed local edits are discarded.
func (v *View) Refresh(ctx context.Context) error {
	detail, err := v.remote.Load(ctx)
	if err != nil {
		return fmt.Errorf("refresh board: %w", err)
	}
	v.store.ReplaceAll(detail.Cards)
	v.detector.Reset()
	metrics.RefreshesTotal.Inc()

	v.mu.Lock()
	v.board = detail.Board
	for id := range v.controllers {
		if _, ok := v.store.Get(id); !ok {
			delete(v.controllers, id)
		}
	}
	v.mu.Unlock()

	v.log.Info("board refreshed", "cards", len(detail.Cards))
	return nil
}

func (v *View) Stale() bool {
	return v.detector.Stale()
}

// Start begins staleness polling in the background. Calling it again, or
// after Close, does nothing.
func (v *View) Start(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.stop != nil || v.closed {
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	v.stop = cancel
	go v.detector.Start(pollCtx)
}

// Close stops polling and waits for deferred writes to settle. Writes are
// never cancelled.
func (v *View) Close() {
	v.mu.Lock()
	if v.stop != nil {
		v.stop()
	}
	v.closed = true
	v.mu.Unlock()

	v.inflight.Wait()
	v.log.Info("board closed")
}

// Wait blocks until deferred writes settle without closing the view.
func (v *View) Wait() {
	v.inflight.Wait()
}

// AutoFitImages sizes every image card that has no persisted geometry.
// Cards whose image cannot be probed are skipped and retried on the next
// call. It returns how many cards were fitted.
func (v *View) AutoFitImages(ctx context.Context, probe Prober) int {
	fitted := 0
	for _, c := range v.store.Cards() {
		if !c.IsImage() || c.HasSize() || c.ImageURL == nil {
			continue
		}
		w, h, err := probe.NaturalSize(ctx, *c.ImageURL)
		if err != nil {
			v.log.Warn("cannot size image card", "card_id", c.Id, "error", err)
			continue
		}
		ok, err := v.Controller(c.Id).AutoFit(w, h)
		if err != nil {
			v.log.Warn("auto-fit failed", "card_id", c.Id, "error", err)
			continue
		}
		if ok {
			fitted++
		}
	}
	return fitted
}

func clampToBoard(x, y, size float64) (float64, float64) {
	clamp := func(v float64) float64 {
		if v != v || v < 0 {
			return 0
		}
		if v > size {
			return size
		}
		return v
	}
	return clamp(x), clamp(y)
}
