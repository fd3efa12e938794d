// Package service implements buyer record mutations and queries. Every
// operation re-resolves authorization at call time and translates storage
// conflicts into typed domain errors.
package service

import (
	"context"
	"errors"
	"fmt"

	"buyerleads_backend/internal/buyers/access"
	"buyerleads_backend/internal/buyers/repository"
	"buyerleads_backend/internal/buyers/schema"
	"buyerleads_backend/internal/buyers/transport"
	"buyerleads_backend/internal/events"
	"buyerleads_backend/platform/apperr"
	"buyerleads_backend/platform/httpkit"
	"buyerleads_backend/platform/logger"
	"buyerleads_backend/platform/phone"
	"buyerleads_backend/platform/ratelimit"
	"buyerleads_backend/platform/sanitize"

	"github.com/google/uuid"
)

const (
	msgNotFound      = "buyer not found"
	msgUnauth        = "you must be signed in"
	msgRateLimited   = "too many requests, please wait a minute and try again"
	msgDuplicate     = "a buyer with this phone number already exists for your account"
	msgStorageFailed = "unexpected storage error"
)

// Repository is the data access slice needed by the service.
type Repository interface {
	repository.BuyerReader
	repository.BuyerWriter
	repository.BuyerLister
}

// Cache is an optional read-through cache for records and list views.
// Invalidation happens out of band via domain events.
type Cache interface {
	GetRecord(ctx context.Context, id uuid.UUID) (transport.BuyerResponse, bool)
	SetRecord(ctx context.Context, record transport.BuyerResponse)
	GetList(ctx context.Context, key string) (transport.BuyerListResponse, bool)
	SetList(ctx context.Context, key string, list transport.BuyerListResponse)
}

// Service handles buyer record operations.
type Service struct {
	repo    Repository
	schema  *schema.Schema
	guard   *access.Guard
	limiter *ratelimit.Limiter
	bus     events.Bus
	cache   Cache
	log     *logger.Logger
}

// New creates a buyer service. cache may be nil when caching is disabled.
func New(repo Repository, sch *schema.Schema, guard *access.Guard, limiter *ratelimit.Limiter, bus events.Bus, cache Cache, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		schema:  sch,
		guard:   guard,
		limiter: limiter,
		bus:     bus,
		cache:   cache,
		log:     log,
	}
}

// Create validates the raw fields and inserts a new record owned by the
// acting identity. Order of checks: authentication, rate limit, validation,
// storage.
func (s *Service) Create(ctx context.Context, identity httpkit.Identity, fields map[string]string) (transport.BuyerResponse, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return transport.BuyerResponse{}, apperr.Unauthorized(msgUnauth)
	}

	if !s.limiter.Allow(identity.UserID().String()) {
		return transport.BuyerResponse{}, apperr.RateLimited(msgRateLimited)
	}

	input, fieldErrs := s.schema.ParseCreate(fields)
	if fieldErrs.HasErrors() {
		return transport.BuyerResponse{}, apperr.Validation("validation failed").WithDetails(fieldErrs)
	}

	buyer, err := s.repo.Create(ctx, identity.UserID(), toParams(input))
	if err != nil {
		return transport.BuyerResponse{}, s.classifyWriteError(err, "buyers.create")
	}

	s.bus.Publish(ctx, events.BuyerCreated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   buyer.ID,
		OwnerID:   buyer.OwnerID,
		Phone:     buyer.Phone,
	})

	return transport.ToBuyerResponse(buyer), nil
}

// Update replaces every mutable field of the record. Authorization is
// re-resolved here, never trusted from a previously rendered page; a denied
// actor gets the same not-found outcome as a missing record. ownerId is
// preserved by construction: the repository never writes it.
func (s *Service) Update(ctx context.Context, identity httpkit.Identity, id uuid.UUID, fields map[string]string) (transport.BuyerResponse, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return transport.BuyerResponse{}, apperr.Unauthorized(msgUnauth)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.BuyerResponse{}, apperr.NotFound(msgNotFound)
		}
		return transport.BuyerResponse{}, apperr.Wrap(apperr.KindInternal, msgStorageFailed, err).WithOp("buyers.update")
	}

	if !s.guard.CanAccess(identity.Email(), current.Email, access.ModeEdit) {
		return transport.BuyerResponse{}, apperr.NotFound(msgNotFound)
	}

	if !s.limiter.Allow(identity.UserID().String()) {
		return transport.BuyerResponse{}, apperr.RateLimited(msgRateLimited)
	}

	input, fieldErrs := s.schema.ParseUpdate(fields)
	if fieldErrs.HasErrors() {
		return transport.BuyerResponse{}, apperr.Validation("validation failed").WithDetails(fieldErrs)
	}

	// The updatedAt the caller last saw is parsed and required but not
	// compared against the stored value; concurrent updates keep
	// last-write-wins semantics.
	buyer, err := s.repo.Update(ctx, id, toParams(input.Input))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.BuyerResponse{}, apperr.NotFound(msgNotFound)
		}
		return transport.BuyerResponse{}, s.classifyWriteError(err, "buyers.update")
	}

	s.bus.Publish(ctx, events.BuyerUpdated{
		BaseEvent: events.NewBaseEvent(),
		BuyerID:   buyer.ID,
		OwnerID:   buyer.OwnerID,
	})

	return transport.ToBuyerResponse(buyer), nil
}

// Get returns a single record with the acting identity's edit capability
// resolved. Unauthorized access is masked as not found.
func (s *Service) Get(ctx context.Context, identity httpkit.Identity, id uuid.UUID) (transport.BuyerDetailResponse, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return transport.BuyerDetailResponse{}, apperr.Unauthorized(msgUnauth)
	}

	record, ok := s.cachedRecord(ctx, id)
	if !ok {
		buyer, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return transport.BuyerDetailResponse{}, apperr.NotFound(msgNotFound)
			}
			return transport.BuyerDetailResponse{}, apperr.Wrap(apperr.KindInternal, msgStorageFailed, err).WithOp("buyers.get")
		}
		record = transport.ToBuyerResponse(buyer)
		if s.cache != nil {
			s.cache.SetRecord(ctx, record)
		}
	}

	if !s.guard.CanAccess(identity.Email(), record.Email, access.ModeView) {
		return transport.BuyerDetailResponse{}, apperr.NotFound(msgNotFound)
	}

	return transport.BuyerDetailResponse{
		BuyerResponse: record,
		CanEdit:       s.guard.CanAccess(identity.Email(), record.Email, access.ModeEdit),
	}, nil
}

// List returns a filtered, sorted page of records. Any authenticated
// identity may list; row-level masking applies only to single-record access.
func (s *Service) List(ctx context.Context, identity httpkit.Identity, req transport.ListBuyersRequest) (transport.BuyerListResponse, error) {
	if identity == nil || !identity.IsAuthenticated() {
		return transport.BuyerListResponse{}, apperr.Unauthorized(msgUnauth)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	params := repository.ListParams{
		Search:       req.Search,
		City:         req.City,
		PropertyType: req.PropertyType,
		Purpose:      req.Purpose,
		Timeline:     req.Timeline,
		Source:       req.Source,
		Status:       req.Status,
		BHK:          req.BHK,
		SortBy:       req.SortBy,
		SortOrder:    req.SortOrder,
		Offset:       (page - 1) * pageSize,
		Limit:        pageSize,
	}

	key := listKey(params)
	if s.cache != nil {
		if cached, ok := s.cache.GetList(ctx, key); ok {
			return cached, nil
		}
	}

	buyers, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.BuyerListResponse{}, apperr.Wrap(apperr.KindInternal, msgStorageFailed, err).WithOp("buyers.list")
	}

	response := transport.ToBuyerListResponse(buyers, total, page, pageSize)
	if s.cache != nil {
		s.cache.SetList(ctx, key, response)
	}
	return response, nil
}

func (s *Service) cachedRecord(ctx context.Context, id uuid.UUID) (transport.BuyerResponse, bool) {
	if s.cache == nil {
		return transport.BuyerResponse{}, false
	}
	return s.cache.GetRecord(ctx, id)
}

func (s *Service) classifyWriteError(err error, op string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperr.Conflict(msgDuplicate)
	}
	if s.log != nil {
		s.log.DatabaseError(op, err)
	}
	return apperr.Wrap(apperr.KindInternal, msgStorageFailed, err).WithOp(op)
}

func toParams(input schema.Input) repository.BuyerParams {
	params := repository.BuyerParams{
		FullName:     input.FullName,
		Phone:        phone.NormalizeE164(input.Phone),
		Email:        input.Email,
		City:         string(input.City),
		PropertyType: string(input.PropertyType),
		Purpose:      string(input.Purpose),
		Timeline:     string(input.Timeline),
		Source:       string(input.Source),
		Status:       string(input.Status),
		BudgetMin:    input.BudgetMin,
		BudgetMax:    input.BudgetMax,
		Notes:        sanitize.TextPtr(input.Notes),
		Tags:         input.Tags,
	}
	if input.BHK != nil {
		bhk := string(*input.BHK)
		params.BHK = &bhk
	}
	return params
}

func listKey(params repository.ListParams) string {
	return fmt.Sprintf("search=%s&city=%s&pt=%s&purpose=%s&tl=%s&src=%s&status=%s&bhk=%s&sort=%s.%s&off=%d&lim=%d",
		params.Search,
		deref(params.City), deref(params.PropertyType), deref(params.Purpose), deref(params.Timeline),
		deref(params.Source), deref(params.Status), deref(params.BHK),
		params.SortBy, params.SortOrder, params.Offset, params.Limit,
	)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
