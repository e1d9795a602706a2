// Package gesture turns pointer and keyboard input on a single card into
// optimistic card store updates and deferred persistence calls.
//
// Every method runs synchronously on the caller's goroutine and never waits
// on the network: motion frames only patch the store, and the single write
// issued when a gesture ends runs in the background.
package gesture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/brainboard/brainboard/frontend/internal/cardstore"
	"github.com/brainboard/brainboard/frontend/internal/viewport"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/brainboard/brainboard/shared/metrics"
)

var (
	ErrReadOnly      = errors.New("card is read-only")
	ErrNoGesture     = errors.New("no gesture in progress")
	ErrBusy          = errors.New("another gesture is in progress")
	ErrNotResizable  = errors.New("only sized image cards can be resized")
	ErrNotText       = errors.New("card is not a text card")
	ErrInvalidSize   = errors.New("natural image size must be positive")
	ErrMissingCard   = errors.New("card is no longer on the board")
	errNonFinitePath = errors.New("pointer coordinates are not finite")
)

// Persister sends a partial card update to the persistence service and
// returns the card as the service stored it.
type Persister interface {
	UpdateCard(ctx context.Context, id domain.CardId, patch domain.CardPatch) (domain.Card, error)
}

// Editability is the permission gate as seen by a controller.
type Editability interface {
	CanEdit() bool
}

// Transform is the viewport as seen by a controller.
type Transform interface {
	ScreenToBoard(clientX, clientY float64) viewport.Point
	ScreenDeltaToBoard(dx, dy float64) viewport.Point
	BoardSize() float64
}

// Deps are shared by every controller of a board view.
type Deps struct {
	Store     *cardstore.Store
	View      Transform
	Gate      Editability
	Persister Persister
	Canvas    config.Canvas
	Inflight  *Inflight
	// Ctx scopes persistence calls. Defaults to context.Background.
	Ctx context.Context
	Log *slog.Logger
}

// Menu is the payload of a context-menu request: where to draw the menu and
// where a new card would land.
type Menu struct {
	Screen viewport.Point
	Board  viewport.Point
	CardId *domain.CardId
}

type mode int

const (
	idle mode = iota
	dragging
	resizing
)

// Controller handles one rendered card. It is not safe for concurrent use.
type Controller struct {
	id   domain.CardId
	deps Deps
	log  *slog.Logger

	mode   mode
	start  viewport.Point
	origin domain.Card
	handle Handle

	draft     string
	draftBase *string
	dirty     bool

	autoFitted bool
}

func New(id domain.CardId, deps Deps) *Controller {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	if deps.Inflight == nil {
		deps.Inflight = &Inflight{}
	}
	log := deps.Log
	if log == nil {
		log = logger.Component("gesture")
	}
	return &Controller{id: id, deps: deps, log: log.With("card_id", id)}
}

func (c *Controller) CardId() domain.CardId {
	return c.id
}

// Editable reports whether any interaction is allowed on this card.
func (c *Controller) Editable() bool {
	return c.deps.Gate.CanEdit()
}

func (c *Controller) card() (domain.Card, error) {
	card, ok := c.deps.Store.Get(c.id)
	if !ok {
		return domain.Card{}, fmt.Errorf("card %d: %w", c.id, ErrMissingCard)
	}
	return card, nil
}

// === Drag ===

func (c *Controller) BeginDrag(clientX, clientY float64) error {
	if !c.Editable() {
		return ErrReadOnly
	}
	if c.mode != idle {
		return ErrBusy
	}
	if !finite(clientX, clientY) {
		return errNonFinitePath
	}
	card, err := c.card()
	if err != nil {
		return err
	}
	c.mode = dragging
	c.start = viewport.Point{X: clientX, Y: clientY}
	c.origin = card
	return nil
}

// DragMove applies one motion frame to the store. No network call is made.
func (c *Controller) DragMove(clientX, clientY float64) error {
	if c.mode != dragging {
		return ErrNoGesture
	}
	if !finite(clientX, clientY) {
		return errNonFinitePath
	}
	if !c.Editable() {
		c.mode = idle
		return ErrReadOnly
	}
	x, y := c.dragTarget(clientX, clientY)
	return c.deps.Store.PatchOne(c.id, domain.CardPatch{PositionX: &x, PositionY: &y})
}

// EndDrag commits the final position and persists it in the background.
// A drag that ends where it started sends nothing.
func (c *Controller) EndDrag(clientX, clientY float64) error {
	if c.mode != dragging {
		return ErrNoGesture
	}
	c.mode = idle
	if !c.Editable() {
		return ErrReadOnly
	}
	if !finite(clientX, clientY) {
		return errNonFinitePath
	}
	x, y := c.dragTarget(clientX, clientY)
	patch := domain.CardPatch{PositionX: &x, PositionY: &y}
	if err := c.deps.Store.PatchOne(c.id, patch); err != nil {
		return err
	}
	if x == c.origin.PositionX && y == c.origin.PositionY {
		return nil
	}
	c.persist("move", patch)
	return nil
}

func (c *Controller) dragTarget(clientX, clientY float64) (float64, float64) {
	d := c.deps.View.ScreenDeltaToBoard(clientX-c.start.X, clientY-c.start.Y)
	w, h := c.footprint()
	return clampPosition(c.origin.PositionX+d.X, c.origin.PositionY+d.Y, w, h, c.deps.View.BoardSize())
}

// footprint is the size the card occupies on the board. Text cards render
// at a fixed width; an image without a persisted size only has its origin.
func (c *Controller) footprint() (float64, float64) {
	if !c.origin.IsImage() {
		return c.deps.Canvas.TextCardWidth, c.deps.Canvas.TextCardHeight
	}
	var w, h float64
	if c.origin.Width != nil {
		w = *c.origin.Width
	}
	if c.origin.Height != nil {
		h = *c.origin.Height
	}
	return w, h
}

// === Resize ===

func (c *Controller) BeginResize(h Handle, clientX, clientY float64) error {
	if !c.Editable() {
		return ErrReadOnly
	}
	if c.mode != idle {
		return ErrBusy
	}
	if !finite(clientX, clientY) {
		return errNonFinitePath
	}
	card, err := c.card()
	if err != nil {
		return err
	}
	if !card.IsImage() || !card.HasSize() || *card.Width <= 0 || *card.Height <= 0 {
		return ErrNotResizable
	}
	c.mode = resizing
	c.handle = h
	c.start = viewport.Point{X: clientX, Y: clientY}
	c.origin = card
	return nil
}

func (c *Controller) ResizeMove(clientX, clientY float64) error {
	if c.mode != resizing {
		return ErrNoGesture
	}
	if !finite(clientX, clientY) {
		return errNonFinitePath
	}
	if !c.Editable() {
		c.mode = idle
		return ErrReadOnly
	}
	return c.deps.Store.PatchOne(c.id, c.resizeTarget(clientX, clientY))
}

// EndResize commits the final size and origin, then persists them.
func (c *Controller) EndResize(clientX, clientY float64) error {
	if c.mode != resizing {
		return ErrNoGesture
	}
	c.mode = idle
	if !c.Editable() {
		return ErrReadOnly
	}
	if !finite(clientX, clientY) {
		return errNonFinitePath
	}
	patch := c.resizeTarget(clientX, clientY)
	if err := c.deps.Store.PatchOne(c.id, patch); err != nil {
		return err
	}
	c.persist("resize", patch)
	return nil
}

func (c *Controller) resizeTarget(clientX, clientY float64) domain.CardPatch {
	d := c.deps.View.ScreenDeltaToBoard(clientX-c.start.X, clientY-c.start.Y)
	r := resizeLocked(
		Rect{X: c.origin.PositionX, Y: c.origin.PositionY, W: *c.origin.Width, H: *c.origin.Height},
		c.handle, d.X, d.Y, c.deps.View.BoardSize(), c.deps.Canvas.MinCardSize,
	)
	return domain.CardPatch{PositionX: &r.X, PositionY: &r.Y, Width: &r.W, Height: &r.H}
}

// Active reports whether a drag or resize is in progress.
func (c *Controller) Active() bool {
	return c.mode != idle
}

// === Text ===

// Draft is the text shown in the editor: the local edit if one is pending,
// otherwise the stored text. A refresh that changes the stored text drops
// the pending edit.
func (c *Controller) Draft() string {
	card, err := c.card()
	if err != nil {
		return c.draft
	}
	if c.dirty && sameText(c.draftBase, card.Text) {
		return c.draft
	}
	if card.Text == nil {
		return ""
	}
	return *card.Text
}

// SetDraft records a keystroke. Nothing is written until CommitText.
func (c *Controller) SetDraft(text string) error {
	if !c.Editable() {
		return ErrReadOnly
	}
	card, err := c.card()
	if err != nil {
		return err
	}
	if card.IsImage() {
		return ErrNotText
	}
	if !c.dirty || !sameText(c.draftBase, card.Text) {
		c.draftBase = card.Text
	}
	c.draft = text
	c.dirty = true
	return nil
}

// CommitText runs on focus loss. Unchanged text is not persisted.
func (c *Controller) CommitText() error {
	if !c.Editable() {
		c.dirty = false
		return ErrReadOnly
	}
	if !c.dirty {
		return nil
	}
	text := c.Draft()
	c.dirty = false

	card, err := c.card()
	if err != nil {
		return err
	}
	if card.Text != nil && *card.Text == text {
		return nil
	}
	patch := domain.CardPatch{Text: &text}
	if err := c.deps.Store.PatchOne(c.id, patch); err != nil {
		return err
	}
	c.persist("text", patch)
	return nil
}

// TextAreaHeight returns the editor height for content of scrollHeight and
// whether the editor scrolls internally instead of growing.
func (c *Controller) TextAreaHeight(scrollHeight float64) (float64, bool) {
	limit := c.deps.Canvas.MaxTextAreaHeight
	return math.Min(scrollHeight, limit), scrollHeight > limit
}

// === Auto-fit ===

// AutoFit sizes an image card that has no persisted geometry from the
// natural size of its image. It runs at most once per controller and
// reports whether it changed anything. Read-only viewers get the local size
// but nothing is persisted.
func (c *Controller) AutoFit(naturalW, naturalH int) (bool, error) {
	if c.autoFitted {
		return false, nil
	}
	card, err := c.card()
	if err != nil {
		return false, err
	}
	if !card.IsImage() || card.HasSize() {
		c.autoFitted = true
		return false, nil
	}
	if naturalW <= 0 || naturalH <= 0 {
		return false, ErrInvalidSize
	}
	w, h := fitWidth(naturalW, naturalH, c.deps.Canvas.MaxAutoWidth)
	patch := domain.CardPatch{Width: &w, Height: &h}
	if err := c.deps.Store.PatchOne(c.id, patch); err != nil {
		return false, err
	}
	c.autoFitted = true
	if c.Editable() {
		c.persist("autofit", patch)
	}
	return true, nil
}

// === Context menu ===

// ContextMenu handles a right click on the card.
func (c *Controller) ContextMenu(clientX, clientY float64) (Menu, bool) {
	if !c.Editable() {
		return Menu{}, false
	}
	id := c.id
	return Menu{
		Screen: viewport.Point{X: clientX, Y: clientY},
		Board:  c.deps.View.ScreenToBoard(clientX, clientY),
		CardId: &id,
	}, true
}

// === Persistence ===

// persist sends patch in the background. Failures are logged and counted;
// the optimistic state stays until the next refresh. On success the stored
// card is folded back so the poller sees our own write as in sync.
func (c *Controller) persist(op string, patch domain.CardPatch) {
	id, ctx, p, store, log := c.id, c.deps.Ctx, c.deps.Persister, c.deps.Store, c.log
	c.deps.Inflight.Go(func() {
		saved, err := p.UpdateCard(ctx, id, patch)
		if err != nil {
			metrics.PersistFailures.WithLabelValues(op).Inc()
			log.Error("card update failed, keeping local state", "op", op, "error", err)
			return
		}
		if saved.Id != id {
			log.Debug("card update persisted without a card in the response", "op", op)
			return
		}
		confirmed := store.ConfirmOne(saved, patch)
		log.Debug("card update persisted", "op", op, "confirmed", confirmed)
	})
}

// Wait blocks until this view's deferred writes have settled.
func (c *Controller) Wait() {
	c.deps.Inflight.Wait()
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
