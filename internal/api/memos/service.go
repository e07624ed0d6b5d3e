package memos

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/evgeniy-krivenko/memos/internal/entity"
	"github.com/evgeniy-krivenko/memos/pkg/logger/slogx"
)

const maxBodyBytes = 1 << 20

type memosUsecase interface {
	CreateMemo(ctx context.Context, title, content string) (entity.Memo, error)
	ListMemos(ctx context.Context) ([]entity.Memo, error)
	GetMemo(ctx context.Context, id int64) (entity.Memo, bool, error)
	UpdateMemo(ctx context.Context, id int64, title, content string) (entity.Memo, bool, error)
	SubscribeToEvents(ctx context.Context) (<-chan entity.MemoEvent, error)
}

// Service is the local HTTP boundary the UI talks to.
type Service struct {
	usecase  memosUsecase
	validate *validator.Validate
}

func New(usecase memosUsecase) (*Service, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}

	return &Service{usecase: usecase, validate: v}, nil
}

func (s *Service) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(slogx.LoggingMiddleware)

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/memos", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/events", s.handleEvents)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
	})

	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	memos, err := s.usecase.ListMemos(r.Context())
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMemoResponses(memos))
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeMemoRequest(w, r)
	if !ok {
		return
	}

	memo, err := s.usecase.CreateMemo(r.Context(), req.Title, req.Content)
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemoResponse(memo))
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := memoID(r)
	if !ok {
		writeError(w, http.StatusNotFound, entity.ErrMemoNotFound.Error())
		return
	}

	memo, found, err := s.usecase.GetMemo(r.Context(), id)
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, entity.ErrMemoNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, toMemoResponse(memo))
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := memoID(r)
	if !ok {
		writeError(w, http.StatusNotFound, entity.ErrMemoNotFound.Error())
		return
	}

	req, ok := s.decodeMemoRequest(w, r)
	if !ok {
		return
	}

	memo, found, err := s.usecase.UpdateMemo(r.Context(), id, req.Title, req.Content)
	if err != nil {
		s.writeStorageError(w, r, err)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, entity.ErrMemoNotFound.Error())
		return
	}

	writeJSON(w, http.StatusOK, toMemoResponse(memo))
}

func (s *Service) decodeMemoRequest(w http.ResponseWriter, r *http.Request) (memoRequest, bool) {
	var req memoRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return memoRequest{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid json body")
		return memoRequest{}, false
	}
	if dec.More() {
		writeError(w, http.StatusBadRequest, "unexpected data after json body")
		return memoRequest{}, false
	}

	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "title and content must not be blank")
		return memoRequest{}, false
	}

	return req, true
}

func (s *Service) writeStorageError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.Error(r.Context(), "memo storage failure", slogx.Err(err))

	msg := "storage failure"
	switch {
	case errors.Is(err, entity.ErrStorageRead):
		msg = "failed to read memos"
	case errors.Is(err, entity.ErrStorageWrite):
		msg = "failed to save memo"
	}

	writeError(w, http.StatusInternalServerError, msg)
}

// memoID rejects anything that can never be an assigned id.
func memoID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}

	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
