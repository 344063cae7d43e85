package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
)

func (s *PostgresStorage) CreateUser(ctx context.Context, login string, passwordHash string) (string, error) {
	var userID string

	row := s.db.QueryRowxContext(
		ctx,
		`INSERT INTO users (login, password)
		VALUES ($1, $2) RETURNING id;`,
		login, passwordHash,
	)

	if err := row.Err(); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	if err := row.Scan(&userID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pgerrcode.IsIntegrityConstraintViolation(string(pqErr.Code)) {
			return "", ErrConflict
		}

		return "", err
	}

	return userID, nil
}

func (s *PostgresStorage) GetUser(ctx context.Context, login string, passwordHash string) (string, error) {
	var userID string

	row := s.db.QueryRowxContext(ctx, "SELECT id FROM users WHERE login = $1 AND password = $2;", login, passwordHash)

	if err := row.Err(); err != nil {
		return "", err
	}

	err := row.Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoRows
		}

		return "", err
	}

	return userID, nil
}
