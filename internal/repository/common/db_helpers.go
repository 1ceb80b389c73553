package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignatzorin/freelance-ledger/internal/db"
)

// GetByID - универсальная функция для получения сущности по ID.
// columns перечисляет выбираемые колонки, suffix добавляется в конец запроса (например FOR UPDATE).
func GetByID[T any](ctx context.Context, q db.Querier, table, columns string, id int64, suffix string) (*T, error) {
	var entity T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 %s", columns, table, suffix)

	if err := q.GetContext(ctx, &entity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %d: %w", table, id, ErrNotFound)
		}
		return nil, fmt.Errorf("get by id from %s: %w", table, err)
	}

	return &entity, nil
}

// Count выполняет COUNT(*) запрос и возвращает результат как int.
func Count(ctx context.Context, q db.Querier, query string, args ...any) (int, error) {
	var total int
	if err := q.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return total, nil
}

// NotFoundOr заменяет sql.ErrNoRows на ErrNotFound, остальные ошибки оборачивает с префиксом.
func NotFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
