package attachment

import (
	"context"
	"errors"
	"net/http"

	"github.com/Taanawutana-gai/LMS/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAttachmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"attachment not found",
		http.StatusNotFound,
	)
	ErrAttachmentPersist = apperror.New(
		apperror.CodePersistenceFailure,
		"attachment could not be stored",
		http.StatusServiceUnavailable,
	)
)

// Store persists uploaded evidence (medical certificates and the like)
// and hands back the reference URL that goes on the request row.
//
//go:generate mockgen -source=attachment_store.go -destination=mock/attachment_store_mock.go -package=mock
type Store interface {
	Save(ctx context.Context, fileName, contentType string, data []byte) (string, error)
	Load(ctx context.Context, id string) (*Attachment, error)
}

type gormStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewGormStore(db *gorm.DB, logger ...*zap.Logger) Store {
	l := zap.L().Named("attachment.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attachment.store")
	}
	return &gormStore{db: db, logger: l}
}

func (s *gormStore) Save(ctx context.Context, fileName, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrAttachmentPersist
	}

	a := &Attachment{
		ID:          uuid.New(),
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		s.logger.Error("attachment persist failed",
			zap.String("file_name", fileName),
			zap.Error(err),
		)
		return "", apperror.Wrap(err, apperror.CodePersistenceFailure, "attachment could not be stored", http.StatusServiceUnavailable)
	}

	return "/api/v1/attachments/" + a.ID.String(), nil
}

func (s *gormStore) Load(ctx context.Context, id string) (*Attachment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrAttachmentNotFound
	}

	var a Attachment
	err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return &a, nil
}
