package domain

import "time"

// Card is a positioned unit on a board. Positions and sizes are always in
// logical board units, never in screen pixels.
type Card struct {
	Id        CardId     `json:"id"`
	BoardId   BoardId    `json:"board_id"`
	Kind      CardKind   `json:"kind"`
	Text      *string    `json:"text,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	PositionX float64    `json:"position_x"`
	PositionY float64    `json:"position_y"`
	Width     *float64   `json:"width,omitempty"`
	Height    *float64   `json:"height,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// IsImage treats an empty kind as text, matching legacy rows.
func (c Card) IsImage() bool {
	return c.Kind == CardKindImage
}

// HasSize reports whether both width and height are persisted.
func (c Card) HasSize() bool {
	return c.Width != nil && c.Height != nil
}

// CardPatch is a partial update. Nil fields are left untouched.
type CardPatch struct {
	Text      *string  `json:"text,omitempty"`
	PositionX *float64 `json:"position_x,omitempty"`
	PositionY *float64 `json:"position_y,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
}

func (p CardPatch) IsEmpty() bool {
	return p.Text == nil && p.PositionX == nil && p.PositionY == nil && p.Width == nil && p.Height == nil
}

// Apply returns a copy of c with the patch applied.
func (p CardPatch) Apply(c Card) Card {
	if p.Text != nil {
		c.Text = Ptr(*p.Text)
	}
	if p.PositionX != nil {
		c.PositionX = *p.PositionX
	}
	if p.PositionY != nil {
		c.PositionY = *p.PositionY
	}
	if p.Width != nil {
		c.Width = Ptr(*p.Width)
	}
	if p.Height != nil {
		c.Height = Ptr(*p.Height)
	}
	return c
}

func Ptr[T any](v T) *T {
	return &v
}
