package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brainboard/brainboard/backend/internal/service"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/domain"
	mw "github.com/brainboard/brainboard/shared/middleware"
	"github.com/go-chi/chi/v5"
)

type MockAuthService struct {
	MockSignup func(creds domain.Credentials) (string, error)
	MockLogin  func(creds domain.Credentials) (string, error)
	MockUser   func(id domain.UserId) (domain.User, error)
}

func (m *MockAuthService) Signup(creds domain.Credentials) (string, error) {
	if m.MockSignup != nil {
		return m.MockSignup(creds)
	}
	return "token", nil
}

func (m *MockAuthService) Login(creds domain.Credentials) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(creds)
	}
	return "token", nil
}

func (m *MockAuthService) User(id domain.UserId) (domain.User, error) {
	if m.MockUser != nil {
		return m.MockUser(id)
	}
	return domain.User{Id: id}, nil
}

type MockBoardService struct {
	MockCreate      func(user domain.User, title domain.BoardTitle) (domain.Board, error)
	MockList        func(user domain.User) ([]domain.Board, error)
	MockDetail      func(v service.Viewer, id domain.BoardId) (domain.BoardDetail, error)
	MockAccessList  func(v service.Viewer, id domain.BoardId) ([]domain.AccessGrant, error)
	MockGrant       func(v service.Viewer, id domain.BoardId, email domain.Email, perm domain.Permission) (domain.AccessGrant, error)
	MockCreateShare func(v service.Viewer, id domain.BoardId, perm domain.Permission) (domain.ShareLink, error)
	MockShared      func(v service.Viewer) (domain.BoardDetail, error)
	MockShareLink   func(token domain.ShareToken) (domain.ShareLink, error)
	MockRename      func(v service.Viewer, id domain.BoardId, title domain.BoardTitle) (domain.Board, error)
	MockThumbnail   func(v service.Viewer, id domain.BoardId, url string) (domain.Board, error)
	MockDelete      func(v service.Viewer, id domain.BoardId) error
	MockRevoke      func(v service.Viewer, id domain.BoardId, grantId int64) error
	MockShareLinks  func(v service.Viewer, id domain.BoardId) ([]domain.ShareLink, error)
	MockDeleteShare func(v service.Viewer, id domain.BoardId, shareId int64) error
}

func (m *MockBoardService) Create(user domain.User, title domain.BoardTitle) (domain.Board, error) {
	if m.MockCreate != nil {
		return m.MockCreate(user, title)
	}
	return domain.Board{}, nil
}

func (m *MockBoardService) List(user domain.User) ([]domain.Board, error) {
	if m.MockList != nil {
		return m.MockList(user)
	}
	return nil, nil
}

func (m *MockBoardService) Detail(v service.Viewer, id domain.BoardId) (domain.BoardDetail, error) {
	if m.MockDetail != nil {
		return m.MockDetail(v, id)
	}
	return domain.BoardDetail{}, nil
}

func (m *MockBoardService) AccessList(v service.Viewer, id domain.BoardId) ([]domain.AccessGrant, error) {
	if m.MockAccessList != nil {
		return m.MockAccessList(v, id)
	}
	return nil, nil
}

func (m *MockBoardService) Grant(v service.Viewer, id domain.BoardId, email domain.Email, perm domain.Permission) (domain.AccessGrant, error) {
	if m.MockGrant != nil {
		return m.MockGrant(v, id, email, perm)
	}
	return domain.AccessGrant{}, nil
}

func (m *MockBoardService) CreateShare(v service.Viewer, id domain.BoardId, perm domain.Permission) (domain.ShareLink, error) {
	if m.MockCreateShare != nil {
		return m.MockCreateShare(v, id, perm)
	}
	return domain.ShareLink{}, nil
}

func (m *MockBoardService) Shared(v service.Viewer) (domain.BoardDetail, error) {
	if m.MockShared != nil {
		return m.MockShared(v)
	}
	return domain.BoardDetail{}, nil
}

func (m *MockBoardService) ShareLink(token domain.ShareToken) (domain.ShareLink, error) {
	if m.MockShareLink != nil {
		return m.MockShareLink(token)
	}
	return domain.ShareLink{Token: token}, nil
}

func (m *MockBoardService) Rename(v service.Viewer, id domain.BoardId, title domain.BoardTitle) (domain.Board, error) {
	if m.MockRename != nil {
		return m.MockRename(v, id, title)
	}
	return domain.Board{Id: id, Title: title}, nil
}

func (m *MockBoardService) SetThumbnail(v service.Viewer, id domain.BoardId, url string) (domain.Board, error) {
	if m.MockThumbnail != nil {
		return m.MockThumbnail(v, id, url)
	}
	return domain.Board{Id: id, ThumbnailURL: url}, nil
}

func (m *MockBoardService) Delete(v service.Viewer, id domain.BoardId) error {
	if m.MockDelete != nil {
		return m.MockDelete(v, id)
	}
	return nil
}

func (m *MockBoardService) Revoke(v service.Viewer, id domain.BoardId, grantId int64) error {
	if m.MockRevoke != nil {
		return m.MockRevoke(v, id, grantId)
	}
	return nil
}

func (m *MockBoardService) ShareLinks(v service.Viewer, id domain.BoardId) ([]domain.ShareLink, error) {
	if m.MockShareLinks != nil {
		return m.MockShareLinks(v, id)
	}
	return []domain.ShareLink{}, nil
}

func (m *MockBoardService) DeleteShare(v service.Viewer, id domain.BoardId, shareId int64) error {
	if m.MockDeleteShare != nil {
		return m.MockDeleteShare(v, id, shareId)
	}
	return nil
}

type MockCardService struct {
	MockList   func(v service.Viewer, boardId domain.BoardId) ([]domain.Card, error)
	MockCreate func(v service.Viewer, card domain.Card) (domain.Card, error)
	MockUpdate func(v service.Viewer, id domain.CardId, patch domain.CardPatch) (domain.Card, error)
	MockDelete func(v service.Viewer, id domain.CardId) error
}

func (m *MockCardService) List(v service.Viewer, boardId domain.BoardId) ([]domain.Card, error) {
	if m.MockList != nil {
		return m.MockList(v, boardId)
	}
	return nil, nil
}

func (m *MockCardService) Create(v service.Viewer, card domain.Card) (domain.Card, error) {
	if m.MockCreate != nil {
		return m.MockCreate(v, card)
	}
	return card, nil
}

func (m *MockCardService) Update(v service.Viewer, id domain.CardId, patch domain.CardPatch) (domain.Card, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(v, id, patch)
	}
	return domain.Card{Id: id}, nil
}

func (m *MockCardService) Delete(v service.Viewer, id domain.CardId) error {
	if m.MockDelete != nil {
		return m.MockDelete(v, id)
	}
	return nil
}

type MockImageService struct {
	MockUpload          func(v service.Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error)
	MockUploadThumbnail func(v service.Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error)
	MockOpen            func(filePath string) (io.ReadCloser, error)
}

func (m *MockImageService) UploadThumbnail(v service.Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	if m.MockUploadThumbnail != nil {
		return m.MockUploadThumbnail(v, boardId, fileHeader, file)
	}
	return "/uploads/thumb.png", nil
}

func (m *MockImageService) Upload(v service.Viewer, boardId domain.BoardId, fileHeader *multipart.FileHeader, file multipart.File) (string, error) {
	if m.MockUpload != nil {
		return m.MockUpload(v, boardId, fileHeader, file)
	}
	return "/uploads/x.png", nil
}

func (m *MockImageService) Open(filePath string) (io.ReadCloser, error) {
	if m.MockOpen != nil {
		return m.MockOpen(filePath)
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

type MockHealth struct {
	MockPing func(ctx context.Context) error
}

func (m *MockHealth) Ping(ctx context.Context) error {
	if m.MockPing != nil {
		return m.MockPing(ctx)
	}
	return nil
}

var testUser = &domain.User{Id: 123, Email: "user@example.com"}

// withUser injects user into the request context the way the auth
// middleware does. A nil user leaves the request anonymous.
func withUser(user *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user != nil {
				r = r.WithContext(context.WithValue(r.Context(), mw.UserClaimsKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newTestHandler() *Handler {
	cfg := config.DefaultPublic()
	cfg.Server.MaxUploadBytes = 1 << 10
	return New(&MockAuthService{}, &MockBoardService{}, &MockCardService{}, &MockImageService{}, &MockHealth{}, &cfg)
}

// setupRouter mounts every route of h the way the service does, with user
// injected instead of a token check.
func setupRouter(h *Handler, user *domain.User) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/auth/signup", h.Signup)
	router.Post("/auth/login", h.Login)
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
	router.Get("/uploads/*", h.ServeImage)

	router.Group(func(r chi.Router) {
		r.Use(withUser(user))
		r.Get("/me", h.Me)
		r.Get("/boards", h.GetBoards)
		r.Post("/boards", h.CreateBoard)
		r.Get("/boards/{id}", h.GetBoardDetail)
		r.Put("/boards/{id}", h.RenameBoard)
		r.Delete("/boards/{id}", h.DeleteBoard)
		r.Get("/boards/{id}/cards", h.GetCards)
		r.Post("/boards/{id}/cards", h.CreateCard)
		r.Get("/boards/{id}/access", h.GetAccessList)
		r.Post("/boards/{id}/access", h.GrantAccess)
		r.Delete("/boards/{id}/access/{grantId}", h.RevokeAccess)
		r.Get("/boards/{id}/share", h.GetShareLinks)
		r.Post("/boards/{id}/share", h.CreateShareLink)
		r.Delete("/boards/{id}/share/{shareId}", h.DeleteShareLink)
		r.Post("/boards/{id}/thumbnail", h.UploadThumbnail)
		r.Delete("/boards/{id}/thumbnail", h.DeleteThumbnail)
		r.Post("/boards/{id}/images", h.UploadImage)
		r.Put("/cards/{cardId}", h.UpdateCard)
		r.Delete("/cards/{cardId}", h.DeleteCard)

		r.Get("/share/{token}", h.GetSharedBoard)
		r.Get("/share/{token}/cards", h.GetCards)
		r.Post("/share/{token}/cards", h.CreateCard)
		r.Put("/share/{token}/cards/{cardId}", h.UpdateCard)
		r.Delete("/share/{token}/cards/{cardId}", h.DeleteCard)
		r.Post("/share/{token}/images", h.UploadImage)
		r.Get("/permission/{token}", h.GetSharePermission)
	})
	return router
}

func createRequest(t *testing.T, method, url string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
