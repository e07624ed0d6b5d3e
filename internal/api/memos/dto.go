package memos

import (
	"time"

	"github.com/evgeniy-krivenko/memos/internal/entity"
)

type memoRequest struct {
	Title   string `json:"title" validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

type memoResponse struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

type eventResponse struct {
	Kind entity.MemoEventKind `json:"kind"`
	Memo memoResponse         `json:"memo"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toMemoResponse(m entity.Memo) memoResponse {
	return memoResponse{
		ID:      m.ID,
		Title:   m.Title,
		Content: m.Content,
		Date:    m.Date.UTC().Format(time.RFC3339Nano),
	}
}

func toMemoResponses(memos []entity.Memo) []memoResponse {
	resp := make([]memoResponse, 0, len(memos))
	for _, m := range memos {
		resp = append(resp, toMemoResponse(m))
	}

	return resp
}
