package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/storage"
)

var avatarContentTypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// AvatarService hands out presigned URLs for the caller's avatar. With a nil
// presigner every call fails with common.ErrUnavailable.
type AvatarService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	presigner   storage.Presigner
	log         logging.Logger
	now         func() time.Time
}

func NewAvatarService(db *sql.DB, m repomanager.RepositoryManager, presigner storage.Presigner, log logging.Logger) *AvatarService {
	return &AvatarService{db: db, repomanager: m, presigner: presigner, log: log.With("module", "avatars"), now: time.Now}
}

// RequestUpload reserves a new avatar key for the authenticated account and
// returns a presigned PUT for it.
func (s *AvatarService) RequestUpload(ctx context.Context, contentType string) (*storage.Presigned, error) {
	if s.presigner == nil {
		return nil, common.ErrUnavailable
	}
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok || p.Account == nil {
		return nil, common.ErrUnauthorized
	}
	if !slices.Contains(avatarContentTypes, contentType) {
		return nil, fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, contentType)
	}

	key := storage.AvatarKey(p.Account.ID, s.now())
	put, err := s.presigner.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	previous, err := s.repomanager.Accounts(s.db).SetAvatar(ctx, p.Account.ID, key)
	if err != nil {
		return nil, fmt.Errorf("store avatar key: %w", err)
	}
	if previous != nil {
		s.log.Info(ctx, "avatar replaced", "account_id", p.Account.ID, "previous_key", *previous)
	}

	p.Account.AvatarKey = &key
	return put, nil
}

// DownloadURL presigns a GET for the authenticated account's avatar.
func (s *AvatarService) DownloadURL(ctx context.Context) (*storage.Presigned, error) {
	if s.presigner == nil {
		return nil, common.ErrUnavailable
	}
	p, ok := auth.PrincipalFromContext(ctx)
	if !ok || p.Account == nil {
		return nil, common.ErrUnauthorized
	}
	if p.Account.AvatarKey == nil {
		return nil, common.ErrorNotFound
	}
	return s.presigner.PresignGet(ctx, *p.Account.AvatarKey)
}
