package converter

import (
	"fmt"
	"time"

	"github.com/evgeniy-krivenko/memos/internal/entity"
)

// DateLayout is the ISO-8601 form dates are persisted in.
const DateLayout = time.RFC3339Nano

// MemoRow mirrors one row of the memos table.
type MemoRow struct {
	ID      int64
	Title   string
	Content string
	Date    string
}

func ConvertMemoToEntity(row MemoRow) (entity.Memo, error) {
	date, err := ConvertStringToTime(row.Date)
	if err != nil {
		return entity.Memo{}, fmt.Errorf("memo %d: %w", row.ID, err)
	}

	return entity.Memo{
		ID:      row.ID,
		Title:   row.Title,
		Content: row.Content,
		Date:    date,
	}, nil
}

func ConvertMemosToEntity(rows []MemoRow) ([]entity.Memo, error) {
	memos := make([]entity.Memo, 0, len(rows))
	for _, row := range rows {
		memo, err := ConvertMemoToEntity(row)
		if err != nil {
			return nil, err
		}
		memos = append(memos, memo)
	}

	return memos, nil
}

func ConvertTimeToString(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

func ConvertStringToTime(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return t, nil
}
