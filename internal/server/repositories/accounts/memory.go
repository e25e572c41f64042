package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository keeps accounts in process memory. It enforces the same
// uniqueness rules as the accounts table and is used when no DSN is set.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*models.Account
	order   []string
	byEmail map[string]string
	byPhone map[int64]string
	now     func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
		byPhone: make(map[int64]string),
		now:     time.Now,
	}
}

func (r *MemoryRepository) get(id string, ok bool) (*models.Account, error) {
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := *r.byID[id]
	return &a, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	return r.get(id, ok)
}

func (r *MemoryRepository) FindByPhone(_ context.Context, phone int64) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPhone[phone]
	return r.get(id, ok)
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return r.get(id, ok)
}

func (r *MemoryRepository) Create(_ context.Context, acc models.NewAccount) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[acc.Email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	if _, ok := r.byPhone[acc.PhoneNumber]; ok {
		return nil, common.ErrDuplicatePhone
	}

	now := r.now().UTC()
	a := &models.Account{
		ID:             uuid.NewString(),
		Name:           acc.Name,
		Email:          acc.Email,
		PasswordDigest: acc.PasswordDigest,
		PhoneNumber:    acc.PhoneNumber,
		Role:           common.DefaultRole,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	r.byPhone[a.PhoneNumber] = a.ID
	r.order = append(r.order, a.ID)

	out := *a
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context, page models.Page) ([]models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.order
	if page.Offset > 0 {
		if page.Offset >= len(ids) {
			ids = nil
		} else {
			ids = ids[page.Offset:]
		}
	}
	if page.Limit > 0 && page.Limit < len(ids) {
		ids = ids[:page.Limit]
	}

	res := make([]models.Account, 0, len(ids))
	for _, id := range ids {
		res = append(res, *r.byID[id])
	}
	return res, nil
}

func (r *MemoryRepository) SetAvatar(_ context.Context, id string, key string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	previous := a.AvatarKey
	k := key
	a.AvatarKey = &k
	a.UpdatedAt = r.now().UTC()
	return previous, nil
}
