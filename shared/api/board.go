package api

import (
	"github.com/brainboard/brainboard/shared/domain"
)

// Request DTOs

type CredentialsRequest struct {
	Email    domain.Email `json:"email" validate:"required,email"`
	Password string       `json:"password" validate:"required,min=8,max=72"`
}

type CreateBoardRequest struct {
	Title domain.BoardTitle `json:"title" validate:"required,max=200"`
}

type RenameBoardRequest struct {
	Title domain.BoardTitle `json:"title" validate:"required,max=200"`
}

type CreateCardRequest struct {
	Kind      domain.CardKind `json:"kind,omitempty" validate:"omitempty,oneof=text image"`
	Text      string          `json:"text,omitempty"`
	ImageURL  string          `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	PositionX float64         `json:"position_x"`
	PositionY float64         `json:"position_y"`
	Width     *float64        `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height    *float64        `json:"height,omitempty" validate:"omitempty,gt=0"`
}

// UpdateCardRequest is the wire form of domain.CardPatch.
type UpdateCardRequest struct {
	Text      *string  `json:"text,omitempty"`
	PositionX *float64 `json:"position_x,omitempty"`
	PositionY *float64 `json:"position_y,omitempty"`
	Width     *float64 `json:"width,omitempty" validate:"omitempty,gt=0"`
	Height    *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
}

func NewUpdateCardRequest(p domain.CardPatch) UpdateCardRequest {
	return UpdateCardRequest(p)
}

func (r UpdateCardRequest) Patch() domain.CardPatch {
	return domain.CardPatch(r)
}

type CreateShareRequest struct {
	Permission domain.Permission `json:"permission" validate:"required,oneof=read edit"`
}

type GrantAccessRequest struct {
	Email      domain.Email      `json:"email" validate:"required,email"`
	Permission domain.Permission `json:"permission" validate:"required,oneof=read edit"`
}

// Response DTOs

type TokenResponse struct {
	Token string `json:"token"`
}

type SharePermissionResponse struct {
	Permission domain.Permission `json:"permission"`
}

type ImageUploadResponse struct {
	URL string `json:"url"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every non-success response.
type ErrorResponse struct {
	Error string `json:"error"`
}
