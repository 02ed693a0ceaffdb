package services

import (
	"context"
	"sync"

	"bbscope/internal/models"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tracerName = "bbscope/internal/services"

// ScopeService owns the target and subdomain tables. Inputs are expected to
// be validated already.
type ScopeService struct {
	mu     sync.Mutex
	db     *gorm.DB
	tracer trace.Tracer
}

type Option func(*ScopeService)

// WithTracerProvider sets where operation spans go. The global provider is
// used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *ScopeService) {
		s.tracer = tp.Tracer(tracerName)
	}
}

func NewScopeService(db *gorm.DB, opts ...Option) *ScopeService {
	s := &ScopeService{
		db:     db,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CreateResult struct {
	Domain  string `json:"domain"`
	Created bool   `json:"created"`
}

// AddResult splits an AddSubdomains batch into rows that were inserted and
// rows that were ignored because the name already existed.
type AddResult struct {
	Added   []models.Subdomain `json:"added"`
	Skipped []models.Subdomain `json:"skipped"`
}

// Ping reports whether the store is reachable.
func (s *ScopeService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CreateTarget inserts a target. An existing row with the same name is left
// untouched and Created is false.
func (s *ScopeService) CreateTarget(ctx context.Context, domain string, in models.TargetCreate) (CreateResult, error) {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.CreateTarget")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	s.mu.Lock()
	defer s.mu.Unlock()

	row := models.Target{
		Name:       domain,
		ProgramURL: in.ProgramURL,
		Notes:      in.Notes,
	}

	res := s.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return CreateResult{}, fail(span, errors.Wrapf(res.Error, "create target %s", domain))
	}

	return CreateResult{Domain: domain, Created: res.RowsAffected > 0}, nil
}

func (s *ScopeService) GetTarget(ctx context.Context, domain string) (*models.Target, error) {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.GetTarget")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	s.mu.Lock()
	defer s.mu.Unlock()

	target, err := s.findTarget(ctx, s.db, domain)
	if err != nil {
		return nil, fail(span, err)
	}
	return target, nil
}

// ListTargets returns every target with its subdomains, ordered by name.
func (s *ScopeService) ListTargets(ctx context.Context) ([]models.Target, error) {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.ListTargets")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	targets := make([]models.Target, 0)
	err := s.db.WithContext(ctx).
		Preload("Subdomains", orderByName).
		Order("name").
		Find(&targets).Error
	if err != nil {
		return nil, fail(span, errors.Wrap(err, "list targets"))
	}

	for i := range targets {
		if targets[i].Subdomains == nil {
			targets[i].Subdomains = []models.Subdomain{}
		}
	}
	return targets, nil
}

// UpdateTarget replaces program_url and notes. A nil Notes clears the column.
func (s *ScopeService) UpdateTarget(ctx context.Context, domain string, in models.TargetCreate) (*models.Target, error) {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.UpdateTarget")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	s.mu.Lock()
	defer s.mu.Unlock()

	var target *models.Target
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Target{}).
			Where("name = ?", domain).
			Updates(map[string]any{
				"program_url": in.ProgramURL,
				"notes":       in.Notes,
			})
		if res.Error != nil {
			return errors.Wrapf(res.Error, "update target %s", domain)
		}
		if res.RowsAffected == 0 {
			return ErrTargetNotFound
		}

		var err error
		target, err = s.findTarget(ctx, tx, domain)
		return err
	})
	if err != nil {
		return nil, fail(span, err)
	}
	return target, nil
}

// DeleteTarget removes a target and everything scoped under it. Deleting an
// unknown target is a no-op.
func (s *ScopeService) DeleteTarget(ctx context.Context, domain string) error {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.DeleteTarget")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The FK cascades as well; this keeps drivers without enforcement consistent.
		if err := tx.Where("target_name = ?", domain).Delete(&models.Subdomain{}).Error; err != nil {
			return errors.Wrapf(err, "delete subdomains of %s", domain)
		}
		if err := tx.Where("name = ?", domain).Delete(&models.Target{}).Error; err != nil {
			return errors.Wrapf(err, "delete target %s", domain)
		}
		return nil
	})
	if err != nil {
		return fail(span, err)
	}
	return nil
}

// GetSubdomains returns the subdomains under domain. An unknown target yields
// an empty slice.
func (s *ScopeService) GetSubdomains(ctx context.Context, domain string) ([]models.Subdomain, error) {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.GetSubdomains")
	defer span.End()
	span.SetAttributes(attribute.String("domain", domain))

	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]models.Subdomain, 0)
	err := s.db.WithContext(ctx).
		Where("target_name = ?", domain).
		Order("name").
		Find(&subs).Error
	if err != nil {
		return nil, fail(span, errors.Wrapf(err, "get subdomains of %s", domain))
	}
	return subs, nil
}

// AddSubdomains inserts the batch in one transaction. Names already present
// are skipped rather than overwritten. If domain is not a known target the
// whole batch fails with ErrReferentialIntegrity.
func (s *ScopeService) AddSubdomains(ctx context.Context, domain string, subs []models.Subdomain) (AddResult, error) {
	ctx, span := s.tracer.Start(ctx, "Scope.Service.AddSubdomains")
	defer span.End()
	span.SetAttributes(
		attribute.String("domain", domain),
		attribute.Int("batch", len(subs)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	result := AddResult{
		Added:   make([]models.Subdomain, 0, len(subs)),
		Skipped: make([]models.Subdomain, 0),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Target{}).Where("name = ?", domain).Count(&count).Error; err != nil {
			return errors.Wrapf(err, "lookup target %s", domain)
		}
		if count == 0 {
			return errors.Wrapf(ErrReferentialIntegrity, "target %s", domain)
		}

		for _, sub := range subs {
			row := models.Subdomain{
				Name:       sub.Name,
				Status:     sub.Status,
				Title:      sub.Title,
				TargetName: domain,
			}

			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
			if res.Error != nil {
				if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
					return errors.Wrapf(ErrReferentialIntegrity, "target %s", domain)
				}
				return errors.Wrapf(res.Error, "insert subdomain %s", sub.Name)
			}

			if res.RowsAffected == 0 {
				result.Skipped = append(result.Skipped, sub)
			} else {
				result.Added = append(result.Added, sub)
			}
		}
		return nil
	})
	if err != nil {
		return AddResult{}, fail(span, err)
	}

	span.SetAttributes(
		attribute.Int("added", len(result.Added)),
		attribute.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *ScopeService) findTarget(ctx context.Context, db *gorm.DB, domain string) (*models.Target, error) {
	var target models.Target
	err := db.WithContext(ctx).
		Preload("Subdomains", orderByName).
		Where("name = ?", domain).
		Take(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, errors.Wrapf(err, "get target %s", domain)
	}

	if target.Subdomains == nil {
		target.Subdomains = []models.Subdomain{}
	}
	return &target, nil
}

func orderByName(db *gorm.DB) *gorm.DB {
	return db.Order("name")
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
