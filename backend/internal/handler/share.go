package handler

import (
	"net/http"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/utils"
)

func (h *Handler) GetSharedBoard(w http.ResponseWriter, r *http.Request) {
	detail, err := h.board.Shared(viewer(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) GetSharePermission(w http.ResponseWriter, r *http.Request) {
	link, err := h.board.ShareLink(viewer(r).Token)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.SharePermissionResponse{Permission: domain.ParsePermission(string(link.Permission))})
}
