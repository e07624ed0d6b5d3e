package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evgeniy-krivenko/memos/internal/entity"
	"github.com/evgeniy-krivenko/memos/internal/repository/converter"
	"github.com/evgeniy-krivenko/memos/pkg/logger/slogx"
)

const (
	insertMemoQuery = `INSERT INTO memos (title, content, date) VALUES (?, ?, ?)`
	listMemosQuery  = `SELECT id, title, content, date FROM memos ORDER BY id`
	getMemoQuery    = `SELECT id, title, content, date FROM memos WHERE id = ?`
	updateMemoQuery = `UPDATE memos SET title = ?, content = ? WHERE id = ?`
)

func (r *Repo) CreateMemo(ctx context.Context, title, content string) (int64, error) {
	if err := r.checkInit(entity.ErrStorageWrite); err != nil {
		return 0, err
	}

	date := converter.ConvertTimeToString(r.now())

	res, err := r.db.ExecContext(ctx, insertMemoQuery, title, content, date)
	if err != nil {
		return 0, fmt.Errorf("%w: create memo: %w", entity.ErrStorageWrite, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: create memo: last insert id: %w", entity.ErrStorageWrite, err)
	}

	slogx.Debug(ctx, "success to create memo", slogx.MemoID(id))

	return id, nil
}

func (r *Repo) ListMemos(ctx context.Context) ([]entity.Memo, error) {
	if err := r.checkInit(entity.ErrStorageRead); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, listMemosQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: list memos: %w", entity.ErrStorageRead, err)
	}
	defer rows.Close()

	var result []converter.MemoRow
	for rows.Next() {
		var row converter.MemoRow
		if err := rows.Scan(&row.ID, &row.Title, &row.Content, &row.Date); err != nil {
			return nil, fmt.Errorf("%w: list memos: scan: %w", entity.ErrStorageRead, err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list memos: %w", entity.ErrStorageRead, err)
	}

	memos, err := converter.ConvertMemosToEntity(result)
	if err != nil {
		return nil, fmt.Errorf("%w: list memos: %w", entity.ErrStorageRead, err)
	}

	return memos, nil
}

// GetMemo reports found=false, with a nil error, when no memo has the id.
func (r *Repo) GetMemo(ctx context.Context, id int64) (entity.Memo, bool, error) {
	if err := r.checkInit(entity.ErrStorageRead); err != nil {
		return entity.Memo{}, false, err
	}

	if id < 1 {
		return entity.Memo{}, false, nil
	}

	var row converter.MemoRow
	err := r.db.QueryRowContext(ctx, getMemoQuery, id).
		Scan(&row.ID, &row.Title, &row.Content, &row.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Memo{}, false, nil
		}
		return entity.Memo{}, false, fmt.Errorf("%w: get memo: %w", entity.ErrStorageRead, err)
	}

	memo, err := converter.ConvertMemoToEntity(row)
	if err != nil {
		return entity.Memo{}, false, fmt.Errorf("%w: get memo: %w", entity.ErrStorageRead, err)
	}

	return memo, true, nil
}

// UpdateMemo replaces title and content. The id and date are kept. It never
// inserts: an unknown id yields found=false.
func (r *Repo) UpdateMemo(ctx context.Context, id int64, title, content string) (bool, error) {
	if err := r.checkInit(entity.ErrStorageWrite); err != nil {
		return false, err
	}

	if id < 1 {
		return false, nil
	}

	res, err := r.db.ExecContext(ctx, updateMemoQuery, title, content, id)
	if err != nil {
		return false, fmt.Errorf("%w: update memo: %w", entity.ErrStorageWrite, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: update memo: rows affected: %w", entity.ErrStorageWrite, err)
	}

	if n == 0 {
		slogx.Debug(ctx, "memo to update not found", slogx.MemoID(id))
		return false, nil
	}

	slogx.Debug(ctx, "success to update memo", slogx.MemoID(id))

	return true, nil
}
