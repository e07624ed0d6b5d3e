package memos

import (
	"context"
	"fmt"

	"github.com/imkira/go-observer"

	"github.com/evgeniy-krivenko/memos/internal/entity"
	"github.com/evgeniy-krivenko/memos/pkg/logger/slogx"
)

type memosRepository interface {
	CreateMemo(ctx context.Context, title, content string) (int64, error)
	ListMemos(ctx context.Context) ([]entity.Memo, error)
	GetMemo(ctx context.Context, id int64) (entity.Memo, bool, error)
	UpdateMemo(ctx context.Context, id int64, title, content string) (bool, error)
}

type txRunner interface {
	RunInTx(ctx context.Context, f func(context.Context) error) error
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.3 -out-filename=usecase_options.gen.go -from-struct=Options
type Options struct {
	repo memosRepository `option:"mandatory" validate:"required"`
	tx   txRunner        `option:"mandatory" validate:"required"`
}

type Usecase struct {
	Options
	observer observer.Property
}

func New(opts Options) (*Usecase, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate memos usecase options: %v", err)
	}

	prop := observer.NewProperty(entity.MemoEvent{})

	return &Usecase{Options: opts, observer: prop}, nil
}

func (u *Usecase) CreateMemo(ctx context.Context, title, content string) (entity.Memo, error) {
	var memo entity.Memo

	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		id, err := u.repo.CreateMemo(ctx, title, content)
		if err != nil {
			return err
		}

		created, found, err := u.repo.GetMemo(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: memo %d vanished after insert", entity.ErrStorageWrite, id)
		}

		memo = created
		return nil
	})
	if err != nil {
		return entity.Memo{}, fmt.Errorf("usecase create memo: %w", err)
	}

	u.observer.Update(entity.MemoEvent{Kind: entity.MemoCreated, Memo: memo})

	slogx.Info(ctx, "success to create memo", slogx.MemoID(memo.ID))
	return memo, nil
}

func (u *Usecase) ListMemos(ctx context.Context) ([]entity.Memo, error) {
	memos, err := u.repo.ListMemos(ctx)
	if err != nil {
		return nil, fmt.Errorf("usecase list memos: %w", err)
	}

	return memos, nil
}

func (u *Usecase) GetMemo(ctx context.Context, id int64) (entity.Memo, bool, error) {
	memo, found, err := u.repo.GetMemo(ctx, id)
	if err != nil {
		return entity.Memo{}, false, fmt.Errorf("usecase get memo: %w", err)
	}

	return memo, found, nil
}

func (u *Usecase) UpdateMemo(ctx context.Context, id int64, title, content string) (entity.Memo, bool, error) {
	var (
		memo  entity.Memo
		found bool
	)

	err := u.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := u.repo.UpdateMemo(ctx, id, title, content)
		if err != nil || !ok {
			return err
		}

		memo, found, err = u.repo.GetMemo(ctx, id)
		return err
	})
	if err != nil {
		return entity.Memo{}, false, fmt.Errorf("usecase update memo: %w", err)
	}

	if !found {
		return entity.Memo{}, false, nil
	}

	u.observer.Update(entity.MemoEvent{Kind: entity.MemoUpdated, Memo: memo})

	slogx.Info(ctx, "success to update memo", slogx.MemoID(id))
	return memo, true, nil
}

// SubscribeToEvents streams memo changes made after the call until ctx is done.
func (u *Usecase) SubscribeToEvents(ctx context.Context) (<-chan entity.MemoEvent, error) {
	stream := u.observer.Observe()

	result := make(chan entity.MemoEvent)
	go func() {
		defer close(result)
		for {
			select {
			case <-ctx.Done():
				return

			case <-stream.Changes():
				event := stream.Next().(entity.MemoEvent)

				select {
				case <-ctx.Done():
					return
				case result <- event:
				}
			}
		}
	}()

	return result, nil
}
