// Package audit defines the structured audit event sink and its
// implementations. The sink is always injected; nothing in this package
// reaches for a process-wide logger.
package audit

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinicore/internal/logger"
	"github.com/clinicore/clinicore/internal/model"
	"github.com/google/uuid"
)

// Sink accepts structured audit records. Implementations must not retain
// the events past the call.
type Sink interface {
	Request(ctx context.Context, ev model.RequestAuditEvent) error
	SignIn(ctx context.Context, ev model.SignInAuditEvent) error
}

// LogSink writes audit events as structured log records
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink on the given logger
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.WithComponent("audit")}
}

// Request writes a request audit record
func (s *LogSink) Request(ctx context.Context, ev model.RequestAuditEvent) error {
	s.log.Info().
		Str("AuditType", model.AuditTypeRequest).
		Str("TimestampUtc", ev.Timestamp.UTC().Format(time.RFC3339Nano)).
		Str("UserId", ev.UserID).
		Str("UserName", ev.UserName).
		Str("Method", ev.Method).
		Str("Path", ev.Path).
		Int("StatusCode", ev.StatusCode).
		Int64("ElapsedMs", ev.ElapsedMs).
		Msgf("HTTP %s %s responded %d in %d ms", ev.Method, ev.Path, ev.StatusCode, ev.ElapsedMs)
	return nil
}

// SignIn writes a sign-in audit record
func (s *LogSink) SignIn(ctx context.Context, ev model.SignInAuditEvent) error {
	s.log.Info().
		Str("AuditType", model.AuditTypeSignIn).
		Str("TimestampUtc", ev.Timestamp.UTC().Format(time.RFC3339Nano)).
		Str("UserId", ev.UserID).
		Str("UserName", ev.UserName).
		Str("RemoteIp", ev.RemoteIP).
		Str("Scheme", ev.Scheme).
		Msgf("SignIn %s from %s via %s", ev.UserName, ev.RemoteIP, ev.Scheme)
	return nil
}

// SignInStore persists sign-in audit records
type SignInStore interface {
	CreateSignIn(ctx context.Context, log *model.AuditLog) error
}

// StoreSink persists sign-in events so observers that were not connected
// still find them in durable audit storage. Request events are log-only
// and pass through untouched.
type StoreSink struct {
	store SignInStore
}

// NewStoreSink creates a StoreSink over the given store
func NewStoreSink(store SignInStore) *StoreSink {
	return &StoreSink{store: store}
}

// Request is a no-op for the store sink
func (s *StoreSink) Request(ctx context.Context, ev model.RequestAuditEvent) error {
	return nil
}

// SignIn inserts the sign-in event into durable audit storage
func (s *StoreSink) SignIn(ctx context.Context, ev model.SignInAuditEvent) error {
	entry := &model.AuditLog{
		ID:         uuid.New().String(),
		AuditType:  model.AuditTypeSignIn,
		UserID:     ev.UserID,
		UserName:   ev.UserName,
		OccurredAt: ev.Timestamp,
	}
	if ev.RemoteIP != "" {
		ip := ev.RemoteIP
		entry.RemoteIP = &ip
	}
	if ev.Scheme != "" {
		scheme := ev.Scheme
		entry.Scheme = &scheme
	}
	return s.store.CreateSignIn(ctx, entry)
}

// MultiSink fans events out to every sink in order. All sinks are invoked
// even when an earlier one fails; errors are joined.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a MultiSink over the given sinks
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Request forwards a request event to all sinks
func (s *MultiSink) Request(ctx context.Context, ev model.RequestAuditEvent) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Request(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SignIn forwards a sign-in event to all sinks
func (s *MultiSink) SignIn(ctx context.Context, ev model.SignInAuditEvent) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.SignIn(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
