package entity

import (
	"errors"
	"time"
)

var (
	ErrStorageInit  = errors.New("storage init")
	ErrStorageRead  = errors.New("storage read")
	ErrStorageWrite = errors.New("storage write")

	ErrStoreNotInitialized = errors.New("store is not initialized")
	ErrMemoNotFound        = errors.New("memo not found")
)

// Memo ids start at 1; zero is never assigned.
type Memo struct {
	ID      int64
	Title   string
	Content string
	Date    time.Time
}

type MemoEventKind string

const (
	MemoCreated MemoEventKind = "created"
	MemoUpdated MemoEventKind = "updated"
)

type MemoEvent struct {
	Kind MemoEventKind
	Memo Memo
}
