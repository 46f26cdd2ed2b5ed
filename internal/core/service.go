// Package core hosts the AffordHostel application state store: the session,
// the hostel catalog and its bookings, reviews, wishlist, notifications and
// company info, all mutated through a transactional PersistentStore.
package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"affordhostel/internal/blob"
	"affordhostel/internal/companyinfo"
	"affordhostel/internal/gateway"
	"affordhostel/internal/infra/persistence/memory"
	"affordhostel/internal/kv"
	"affordhostel/pkg/domain"
)

// Navigation targets recorded by session transitions.
const (
	PageHome      = "home"
	PageDashboard = "dashboard"
)

// Service coordinates domain operations against a persistent store.
type Service struct {
	store   PersistentStore
	engine  *RulesEngine
	now     func() time.Time
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	gateway *gateway.Gateway
	blobs   blob.Store
	company *companyinfo.Repository

	mu          sync.RWMutex
	session     session
	companyInfo CompanyInfo
}

type session struct {
	user *User
	role Role
	page string
}

// Option configures optional service dependencies.
type Option func(*serviceOptions)

type serviceOptions struct {
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	gateway *gateway.Gateway
	blobs   blob.Store
	kv      kv.Store
}

func defaultServiceOptions() serviceOptions {
	return serviceOptions{
		clock:   ClockFunc(nil),
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
		audit:   noopAuditRecorder{},
	}
}

// WithClock injects the time source shared by the service and its store.
func WithClock(clock Clock) Option {
	return func(o *serviceOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger injects a structured logger.
func WithLogger(logger Logger) Option {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder injects an operation metrics recorder.
func WithMetricsRecorder(recorder MetricsRecorder) Option {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.metrics = recorder
		}
	}
}

// WithTracer injects a tracer.
func WithTracer(tracer Tracer) Option {
	return func(o *serviceOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithAuditRecorder injects an audit recorder.
func WithAuditRecorder(recorder AuditRecorder) Option {
	return func(o *serviceOptions) {
		if recorder != nil {
			o.audit = recorder
		}
	}
}

// WithGateway replaces the gateway used for remote-style operations.
func WithGateway(g *gateway.Gateway) Option {
	return func(o *serviceOptions) {
		if g != nil {
			o.gateway = g
		}
	}
}

// WithBlobStore sets the store receiving avatars and verification photos.
func WithBlobStore(store blob.Store) Option {
	return func(o *serviceOptions) {
		if store != nil {
			o.blobs = store
		}
	}
}

// WithKVStore sets the durable store backing company info.
func WithKVStore(store kv.Store) Option {
	return func(o *serviceOptions) {
		if store != nil {
			o.kv = store
		}
	}
}

// NewService constructs a service around store. Company info is loaded from
// the configured KV store and the demo catalog is seeded when store is empty.
func NewService(store PersistentStore, opts ...Option) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.gateway == nil {
		o.gateway = gateway.New(gateway.Config{Name: "affordhostel"})
	}
	if o.blobs == nil {
		o.blobs = blob.NewMemory()
	}
	if o.kv == nil {
		o.kv = kv.NewMemory()
	}
	s := &Service{
		store:   store,
		engine:  extractRulesEngine(store),
		now:     selectNowFunc(o.clock),
		logger:  o.logger,
		metrics: o.metrics,
		tracer:  o.tracer,
		audit:   o.audit,
		gateway: o.gateway,
		blobs:   o.blobs,
		company: companyinfo.NewRepository(o.kv),
		session: session{role: domain.RoleStudent, page: PageHome},
	}
	if setter, ok := store.(interface{ SetNowFunc(func() time.Time) }); ok {
		setter.SetNowFunc(s.now)
	}

	ctx := context.Background()
	info, err := s.company.Load(ctx)
	if err != nil {
		s.logger.Warn("company info load failed, using defaults", "error", err)
	}
	s.companyInfo = info
	if err := s.seedCatalog(ctx); err != nil {
		s.logger.Error("catalog seed failed", "error", err)
	}
	return s
}

// NewInMemoryService creates a service backed by an in-memory store. A nil
// engine selects NewDefaultRulesEngine.
func NewInMemoryService(engine *RulesEngine, opts ...Option) *Service {
	if engine == nil {
		engine = NewDefaultRulesEngine()
	}
	return NewService(memory.NewStore(engine), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore { return s.store }

// RulesEngine returns the engine evaluated by the store, when it exposes one.
func (s *Service) RulesEngine() *RulesEngine { return s.engine }

// Gateway returns the gateway guarding remote-style operations.
func (s *Service) Gateway() *gateway.Gateway { return s.gateway }

// Blobs returns the blob store receiving uploads.
func (s *Service) Blobs() blob.Store { return s.blobs }

func extractRulesEngine(store PersistentStore) *RulesEngine {
	if provider, ok := store.(interface{ RulesEngine() *RulesEngine }); ok {
		return provider.RulesEngine()
	}
	return nil
}

func selectNowFunc(clock Clock) func() time.Time {
	if clock == nil {
		return ClockFunc(nil).Now
	}
	return clock.Now
}

// run executes fn inside a store transaction and reports the outcome. fn
// returns the id of the entity it changed.
func (s *Service) run(ctx context.Context, op string, fn func(tx Transaction) (string, error)) (Result, error) {
	var res Result
	err := s.observe(ctx, op, func(ctx context.Context) (string, error) {
		var entityID string
		var err error
		res, err = s.store.RunInTransaction(ctx, func(tx Transaction) error {
			id, err := fn(tx)
			entityID = id
			return err
		})
		return entityID, err
	})
	s.logWarnings(op, res)
	return res, err
}

// observe wraps fn with tracing, metrics, logging and audit.
func (s *Service) observe(ctx context.Context, op string, fn func(ctx context.Context) (string, error)) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := time.Now()
	entityID, err := fn(ctx)
	duration := time.Since(start)
	span.End(err)
	s.metrics.Observe(ctx, op, err == nil, duration)
	if err != nil {
		s.logFailure(op, err)
		s.recordAuditError(ctx, op, entityID, duration, err)
		return err
	}
	s.logger.Debug("operation completed", "operation", op, "entity_id", entityID, "duration", duration)
	s.recordAuditSuccess(ctx, op, entityID, duration)
	return nil
}

func (s *Service) logFailure(op string, err error) {
	var violation domain.RuleViolationError
	switch {
	case errors.As(err, &violation):
		s.logger.Warn("operation blocked by rules", "operation", op, "error", err)
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSoldOut):
		s.logger.Info("operation rejected", "operation", op, "error", err)
	default:
		s.logger.Error("operation failed", "operation", op, "error", err)
	}
}

func (s *Service) logWarnings(op string, res Result) {
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityWarn {
			continue
		}
		s.logger.Warn("rule warning", "operation", op, "rule", v.Rule, "entity", v.Entity, "entity_id", v.EntityID, "message", v.Message)
	}
}

func (s *Service) recordAuditSuccess(ctx context.Context, op, entityID string, duration time.Duration) {
	s.recordAudit(ctx, op, entityID, duration, AuditStatusSuccess, "")
}

func (s *Service) recordAuditError(ctx context.Context, op, entityID string, duration time.Duration, err error) {
	s.recordAudit(ctx, op, entityID, duration, AuditStatusError, err.Error())
}

func (s *Service) recordAudit(ctx context.Context, op, entityID string, duration time.Duration, status AuditStatus, message string) {
	meta, ok := auditedOperations[op]
	if !ok {
		return
	}
	actor := ""
	if u, ok := s.CurrentUser(); ok {
		actor = u.ID
	}
	s.audit.Record(ctx, AuditEntry{
		Operation: op,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		ActorID:   actor,
		Status:    status,
		Error:     message,
		Duration:  duration,
		Timestamp: s.now(),
	})
}

// requireUser returns the session user or ErrUnauthorized.
func (s *Service) requireUser() (User, error) {
	u, ok := s.CurrentUser()
	if !ok {
		return User{}, domain.ErrUnauthorized
	}
	return u, nil
}
