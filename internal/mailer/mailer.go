package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Mailer delivers a verification code to an email address.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
}

// PermanentError marks a delivery failure that retrying cannot fix,
// e.g. the upstream rejected the sender identity.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent delivery failure: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// Retrying wraps a Mailer with up to maxAttempts tries and exponential
// backoff (2s, 4s, ...). Permanent errors short-circuit.
type Retrying struct {
	next        Mailer
	maxAttempts int
	sleep       func(time.Duration)
	logger      *zap.Logger
}

func NewRetrying(next Mailer, maxAttempts int, logger *zap.Logger) *Retrying {
	return &Retrying{
		next:        next,
		maxAttempts: maxAttempts,
		sleep:       time.Sleep,
		logger:      logger,
	}
}

func (m *Retrying) SendVerificationCode(ctx context.Context, email, code string) error {
	var err error
	for attempt := 1; attempt <= m.maxAttempts; attempt++ {
		err = m.next.SendVerificationCode(ctx, email, code)
		if err == nil {
			return nil
		}
		if IsPermanent(err) {
			return err
		}
		if attempt < m.maxAttempts {
			delay := time.Duration(1<<attempt) * time.Second
			m.logger.Warn("verification email send failed, retrying",
				zap.String("email", email),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", delay),
				zap.Error(err),
			)
			m.sleep(delay)
		}
	}
	return fmt.Errorf("sending verification code after %d attempts: %w", m.maxAttempts, err)
}
