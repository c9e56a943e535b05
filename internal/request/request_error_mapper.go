package request

import (
	"errors"

	requesterrors "github.com/Taanawutana-gai/LMS/internal/request/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return requesterrors.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			return requesterrors.ErrRequestIDCollision
		}
	}

	return err
}
