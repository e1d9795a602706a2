package handler

import (
	"net/http"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
	mw "github.com/brainboard/brainboard/shared/middleware"
	"github.com/brainboard/brainboard/shared/utils"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body api.CredentialsRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Signup(domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, api.TokenResponse{Token: token})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.CredentialsRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Login(domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.TokenResponse{Token: token})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		utils.WriteJSONError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	me, err := h.auth.User(user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, me)
}
