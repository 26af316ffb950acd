package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bizledger/internal/apperrors"
	"github.com/SscSPs/bizledger/internal/core/domain"
	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizledger/internal/core/ports/services"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/google/uuid"
)

const defaultMaxRetries = 5

// BaseService provides common functionality for all services
type BaseService struct {
	Store      portsrepo.Store
	Clock      func() time.Time
	MaxRetries int
	Reports    portssvc.ReportingService // optional, for cache invalidation
}

func newBaseService(store portsrepo.Store) BaseService {
	return BaseService{
		Store:      store,
		Clock:      func() time.Time { return time.Now().UTC() },
		MaxRetries: defaultMaxRetries,
	}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeWrite checks that the actor's role permits mutations.
func (s *BaseService) AuthorizeWrite(ctx context.Context, actor domain.Actor, workplaceID string) error {
	if actor.CanWrite() {
		return nil
	}
	s.GetLogger(ctx).Warn("Mutation rejected for role",
		slog.String("user_id", actor.UserID),
		slog.String("workplace_id", workplaceID),
		slog.String("role", string(actor.Role)))
	return fmt.Errorf("%w: role %s may not modify workplace data", apperrors.ErrForbidden, actor.Role)
}

// Now returns the service clock's current time.
func (s *BaseService) Now() time.Time {
	return s.Clock()
}

// RunInTx runs fn as one unit of work, retrying it when the store reports a lost race.
// After MaxRetries attempts the failure is reported as internal.
func (s *BaseService) RunInTx(ctx context.Context, op string, fn portsrepo.TxFunc) error {
	attempts := s.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = s.Store.WithinTx(ctx, fn)
		if !errors.Is(err, apperrors.ErrConcurrentUpdate) {
			return err
		}
		s.LogDebug(ctx, "Retrying unit of work after concurrent update",
			slog.String("operation", op),
			slog.Int("attempt", attempt))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	s.LogError(ctx, err, "Unit of work kept losing races", slog.String("operation", op), slog.Int("attempts", attempts))
	return fmt.Errorf("%w: %s could not complete after %d attempts", apperrors.ErrInternal, op, attempts)
}

// invalidateReports drops cached reports after a committed mutation.
func (s *BaseService) invalidateReports(ctx context.Context, workplaceID string) {
	if s.Reports != nil {
		s.Reports.InvalidateReports(ctx, workplaceID)
	}
}

func newID() string {
	return uuid.NewString()
}

// storeError wraps unexpected repository failures as internal errors while letting
// known kinds through unchanged.
func storeError(err error, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, apperrors.ErrNotFound),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrForbidden),
		errors.Is(err, apperrors.ErrInternal),
		errors.Is(err, apperrors.ErrConcurrentUpdate):
		return err
	}
	return fmt.Errorf("%w: failed to %s: %v", apperrors.ErrInternal, action, err)
}
