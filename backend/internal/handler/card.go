package handler

import (
	"net/http"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/utils"
)

// Card handlers serve both /boards/{id}/cards and /share/{token}/cards.

func (h *Handler) GetCards(w http.ResponseWriter, r *http.Request) {
	boardId, v, err := h.boardScope(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	cards, err := h.card.List(v, boardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cards)
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	boardId, v, err := h.boardScope(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card := domain.Card{
		BoardId:   boardId,
		Kind:      body.Kind,
		PositionX: body.PositionX,
		PositionY: body.PositionY,
		Width:     body.Width,
		Height:    body.Height,
	}
	if body.Kind == domain.CardKindImage {
		card.ImageURL = &body.ImageURL
	} else {
		card.Text = &body.Text
	}

	created, err := h.card.Create(v, card)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	updated, err := h.card.Update(viewer(r), id, body.Patch())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := parseIdParam(r, "cardId")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.card.Delete(viewer(r), id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "deleted"})
}
