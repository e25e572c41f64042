package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/mail"
	"github.com/dmitrijs2005/accounts/internal/server/models"
)

const (
	ActivationSubject  = "Activate your account"
	ActivationTemplate = "activation-mail"
)

// RegisterResult is returned by Register. The activation code travels only
// by mail.
type RegisterResult struct {
	ActivationToken string `json:"activation_token"`
}

// Register validates input, checks that email and phone are free, and mails
// an activation code. No account exists until Activate succeeds.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	if err := in.validate(s.phoneRegion); err != nil {
		return nil, err
	}

	repo := s.accounts()
	if err := ensureFree(ctx, repo.FindByEmail, in.Email, common.ErrDuplicateEmail); err != nil {
		return nil, err
	}
	if err := ensureFree(ctx, repo.FindByPhone, in.PhoneNumber, common.ErrDuplicatePhone); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	pending := models.PendingRegistration{
		Name:           in.Name,
		Email:          in.Email,
		PasswordDigest: digest,
		PhoneNumber:    in.PhoneNumber,
		ActivationCode: common.GenerateActivationCode(),
	}

	token, err := s.tokens.Issue(auth.KindActivation, pending)
	if err != nil {
		return nil, fmt.Errorf("issue activation token: %w", err)
	}

	msg := mail.Message{
		To:       in.Email,
		Subject:  ActivationSubject,
		Template: ActivationTemplate,
		Data:     map[string]any{"name": in.Name, "activationCode": pending.ActivationCode},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error(ctx, "activation mail not sent", "email", in.Email, "error", err)
	}

	s.log.Info(ctx, "registration pending activation", "email", in.Email)
	return &RegisterResult{ActivationToken: token}, nil
}

// Activate checks the code against the token and materializes the account.
func (s *AccountService) Activate(ctx context.Context, in ActivateInput) (*models.Account, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var pending models.PendingRegistration
	info, err := s.tokens.Verify(in.ActivationToken, auth.KindActivation, &pending)
	if err != nil {
		return nil, err
	}
	if pending.ActivationCode != in.ActivationCode {
		return nil, common.ErrCodeMismatch
	}

	revoked, err := s.revoked.IsRevoked(ctx, info.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, common.ErrTokenInvalid
	}

	repo := s.accounts()
	if err := ensureFree(ctx, repo.FindByEmail, pending.Email, common.ErrDuplicateEmail); err != nil {
		return nil, err
	}

	acc, err := repo.Create(ctx, models.NewAccount{
		Name:           pending.Name,
		Email:          pending.Email,
		PasswordDigest: pending.PasswordDigest,
		PhoneNumber:    pending.PhoneNumber,
	})
	if err != nil {
		if common.IsConflict(err) {
			return nil, err
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	if _, err := s.revoked.Revoke(ctx, info.ID, info.ExpiresAt); err != nil {
		s.log.Warn(ctx, "activation token not revoked", "account_id", acc.ID, "error", err)
	}

	s.log.Info(ctx, "account activated", "account_id", acc.ID)
	return acc, nil
}

// ensureFree fails with conflict when find locates an account.
func ensureFree[K any](ctx context.Context, find func(context.Context, K) (*models.Account, error), key K, conflict error) error {
	_, err := find(ctx, key)
	switch {
	case err == nil:
		return conflict
	case errors.Is(err, common.ErrorNotFound):
		return nil
	default:
		return fmt.Errorf("lookup account: %w", err)
	}
}
