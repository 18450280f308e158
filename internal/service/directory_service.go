package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spec-kit/school-directory/internal/allocator"
	"github.com/spec-kit/school-directory/internal/config"
	"github.com/spec-kit/school-directory/internal/domain"
	"github.com/spec-kit/school-directory/internal/events"
	"github.com/spec-kit/school-directory/internal/repository"
	apperrors "github.com/spec-kit/school-directory/pkg/util/errorutil"
)

// OnboardTeacherInput carries the fields required to onboard a teacher.
type OnboardTeacherInput struct {
	Name        string          `json:"name" validate:"required"`
	Email       string          `json:"email" validate:"required"`
	Phone       string          `json:"phone" validate:"required"`
	Status      string          `json:"status" validate:"required"`
	Address     string          `json:"address" validate:"required"`
	PositionIDs []string        `json:"position" validate:"required,min=1,dive,required"`
	Degrees     []domain.Degree `json:"degrees" validate:"required,min=1"`
	StartDate   time.Time       `json:"startDate" validate:"required"`
}

// CreatePositionInput carries the fields of a new teacher position. Absent
// flags default to active and not deleted.
type CreatePositionInput struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"des"`
	IsActive    *bool  `json:"isActive"`
	IsDeleted   *bool  `json:"isDeleted"`
}

// TeacherPage is one window of the teacher listing.
type TeacherPage struct {
	Items []domain.TeacherDetails
	Total int
	Page  int
	Limit int
}

// OnboardingRecorder counts onboarding outcomes.
type OnboardingRecorder interface {
	RecordOnboarding(outcome string)
}

// DirectoryDependencies encapsulates collaborators of the directory service.
type DirectoryDependencies struct {
	Store      repository.Store
	Allocator  *allocator.Allocator
	Dispatcher events.Dispatcher
	Recorder   OnboardingRecorder
	Logger     *zap.Logger
}

// DirectoryService manages teachers, their accounts and positions.
type DirectoryService struct {
	store           repository.Store
	allocator       *allocator.Allocator
	dispatcher      events.Dispatcher
	recorder        OnboardingRecorder
	logger          *zap.Logger
	validate        *validator.Validate
	defaultPageSize int
	maxPageSize     int
}

// NewDirectoryService constructs the service.
func NewDirectoryService(cfg config.DirectoryConfig, deps DirectoryDependencies) *DirectoryService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	alloc := deps.Allocator
	if alloc == nil {
		alloc = allocator.New(logger)
	}
	defaultPageSize := cfg.DefaultPageSize
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	maxPageSize := max(cfg.MaxPageSize, defaultPageSize)

	return &DirectoryService{
		store:           deps.Store,
		allocator:       alloc,
		dispatcher:      deps.Dispatcher,
		recorder:        deps.Recorder,
		logger:          logger,
		validate:        newValidator(),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// ListTeachers returns a page of teachers, newest first, with accounts and
// positions resolved. Non-positive page or limit fall back to the first page
// and the default size; oversized limits are clamped.
func (s *DirectoryService) ListTeachers(ctx context.Context, page, limit int) (*TeacherPage, error) {
	page, limit = s.window(page, limit)

	items, total, err := s.store.Teachers().ListPage(ctx, repository.TeacherFilter{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return &TeacherPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *DirectoryService) window(page, limit int) (int, int) {
	if limit < 1 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}
	return page, limit
}

// OnboardTeacher creates the teacher's account and then the teacher itself.
// Validation and the email check run before any write; the two writes share a
// transaction so a failed teacher insert leaves no account behind.
func (s *DirectoryService) OnboardTeacher(ctx context.Context, in OnboardTeacherInput) (*domain.Teacher, error) {
	in = normalizeTeacherInput(in)
	if err := s.validate.Struct(in); err != nil {
		s.record("invalid")
		return nil, validationError(err)
	}

	taken, err := s.store.Teachers().ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.record("failed")
		return nil, apperrors.NewStorageError(err)
	}
	if taken {
		s.record("conflict")
		return nil, emailConflict(in.Email)
	}

	if err := s.checkPositions(ctx, in.PositionIDs); err != nil {
		s.record("invalid")
		return nil, err
	}

	var teacher *domain.Teacher
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		account := &domain.Account{
			Email:       in.Email,
			Name:        in.Name,
			PhoneNumber: in.Phone,
			Address:     in.Address,
		}
		if err := tx.Accounts().Create(ctx, account); err != nil {
			return err
		}

		code, err := s.allocator.Allocate(ctx, tx.Teachers())
		if err != nil {
			return err
		}

		t := &domain.Teacher{
			Code:        code,
			Name:        in.Name,
			Email:       in.Email,
			Phone:       in.Phone,
			Status:      in.Status,
			Address:     in.Address,
			Degrees:     in.Degrees,
			StartDate:   in.StartDate,
			PositionIDs: in.PositionIDs,
			AccountID:   account.ID,
		}
		if err := tx.Teachers().Create(ctx, t); err != nil {
			return err
		}
		teacher = t
		return nil
	})
	if err != nil {
		mapped := s.mapTeacherWriteError(err, in.Email)
		if apperrors.HasCode(mapped, apperrors.CodeConflict) {
			s.record("conflict")
		} else {
			s.record("failed")
			s.logger.Error("teacher onboarding failed", zap.String("email", in.Email), zap.Error(err))
		}
		return nil, mapped
	}

	s.record("created")
	s.publish(ctx, events.NewEvent(events.EventTeacherOnboarded, teacher.ID, events.TeacherOnboardedPayload{
		Code:        teacher.Code,
		Email:       teacher.Email,
		UserID:      teacher.AccountID,
		PositionIDs: teacher.PositionIDs,
	}))
	return teacher, nil
}

// checkPositions resolves every referenced position before anything is written.
func (s *DirectoryService) checkPositions(ctx context.Context, ids []string) error {
	found, err := s.store.Positions().GetByIDs(ctx, ids)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			return apperrors.NewReferenceError("position not found", map[string]any{"position": ids})
		}
		return apperrors.NewStorageError(err)
	}

	known := make(map[string]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewReferenceError("position not found", map[string]any{"position": missing})
	}
	return nil
}

// mapTeacherWriteError classifies failures of the onboarding writes. A late
// email violation is the authoritative duplicate rejection; a late code
// violation stays a storage failure.
func (s *DirectoryService) mapTeacherWriteError(err error, email string) error {
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &dup) && dup.Field == "email":
		return emailConflict(email)
	case errors.Is(err, repository.ErrInvalidReference):
		return apperrors.NewReferenceError("invalid reference", map[string]any{"reason": err.Error()})
	default:
		return apperrors.NewStorageError(err)
	}
}

func emailConflict(email string) error {
	return apperrors.NewConflict("Email is not unique", map[string]any{"email": email})
}

// ListPositions returns every teacher position.
func (s *DirectoryService) ListPositions(ctx context.Context) ([]domain.Position, error) {
	positions, err := s.store.Positions().List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return positions, nil
}

// CreatePosition persists a teacher position with a unique code.
func (s *DirectoryService) CreatePosition(ctx context.Context, in CreatePositionInput) (*domain.Position, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}

	taken, err := s.store.Positions().ExistsByCode(ctx, in.Code)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	if taken {
		return nil, codeConflict(in.Code)
	}

	position := &domain.Position{
		Code:        in.Code,
		Name:        in.Name,
		Description: in.Description,
		IsActive:    true,
	}
	if in.IsActive != nil {
		position.IsActive = *in.IsActive
	}
	if in.IsDeleted != nil {
		position.IsDeleted = *in.IsDeleted
	}

	if err := s.store.Positions().Create(ctx, position); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, codeConflict(in.Code)
		}
		return nil, apperrors.NewStorageError(err)
	}

	s.publish(ctx, events.NewEvent(events.EventPositionCreated, position.ID, events.PositionCreatedPayload{
		Code: position.Code,
		Name: position.Name,
	}))
	return position, nil
}

func codeConflict(code string) error {
	return apperrors.NewConflict("Code is not unique", map[string]any{"code": code})
}

// ListUsers returns every account.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.store.Accounts().List(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return accounts, nil
}

func (s *DirectoryService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func (s *DirectoryService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordOnboarding(outcome)
	}
}

func normalizeTeacherInput(in OnboardTeacherInput) OnboardTeacherInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Status = strings.TrimSpace(in.Status)
	in.Address = strings.TrimSpace(in.Address)

	if in.PositionIDs != nil {
		ids := make([]string, 0, len(in.PositionIDs))
		seen := make(map[string]struct{}, len(in.PositionIDs))
		for _, id := range in.PositionIDs {
			id = strings.TrimSpace(id)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		in.PositionIDs = ids
	}
	return in
}
