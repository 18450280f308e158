package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/school-directory/internal/config"
	"github.com/spec-kit/school-directory/internal/domain"
	"github.com/spec-kit/school-directory/internal/events"
	"github.com/spec-kit/school-directory/internal/repository"
	"github.com/spec-kit/school-directory/internal/repository/memory"
	apperrors "github.com/spec-kit/school-directory/pkg/util/errorutil"
)

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (r *outcomeRecorder) RecordOnboarding(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.outcomes == nil {
		r.outcomes = map[string]int{}
	}
	r.outcomes[outcome]++
}

// faultyStore wraps a Store and injects teacher repository failures.
type faultyStore struct {
	repository.Store
	createErr  error
	listErr    error
	hideEmails bool
}

func (f *faultyStore) Teachers() repository.TeacherRepository {
	return &faultyTeachers{TeacherRepository: f.Store.Teachers(), store: f}
}

func (f *faultyStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return f.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(&faultyStore{Store: tx, createErr: f.createErr, listErr: f.listErr, hideEmails: f.hideEmails})
	})
}

type faultyTeachers struct {
	repository.TeacherRepository
	store *faultyStore
}

func (t *faultyTeachers) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if t.store.hideEmails {
		return false, nil
	}
	return t.TeacherRepository.ExistsByEmail(ctx, email)
}

func (t *faultyTeachers) Create(ctx context.Context, teacher *domain.Teacher) error {
	if t.store.createErr != nil {
		return t.store.createErr
	}
	return t.TeacherRepository.Create(ctx, teacher)
}

func (t *faultyTeachers) ListPage(ctx context.Context, filter repository.TeacherFilter) ([]domain.TeacherDetails, int, error) {
	if t.store.listErr != nil {
		return nil, 0, t.store.listErr
	}
	return t.TeacherRepository.ListPage(ctx, filter)
}

type fixture struct {
	store      repository.Store
	svc        *DirectoryService
	recorder   *outcomeRecorder
	dispatcher events.Dispatcher

	mu        sync.Mutex
	published []events.Event
}

func newFixture(t *testing.T, store repository.Store) *fixture {
	t.Helper()
	if store == nil {
		store = memory.New()
	}
	f := &fixture{
		store:      store,
		recorder:   &outcomeRecorder{},
		dispatcher: events.NewInMemoryDispatcher(),
	}
	capture := func(_ context.Context, e events.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.published = append(f.published, e)
		return nil
	}
	f.dispatcher.Subscribe(events.EventTeacherOnboarded, capture)
	f.dispatcher.Subscribe(events.EventPositionCreated, capture)

	f.svc = NewDirectoryService(config.DirectoryConfig{DefaultPageSize: 10, MaxPageSize: 100}, DirectoryDependencies{
		Store:      store,
		Dispatcher: f.dispatcher,
		Recorder:   f.recorder,
	})
	return f
}

func (f *fixture) position(t *testing.T, code string) *domain.Position {
	t.Helper()
	p, err := f.svc.CreatePosition(context.Background(), CreatePositionInput{Code: code, Name: "Position " + code})
	require.NoError(t, err)
	return p
}

func teacherInput(email string, positionIDs ...string) OnboardTeacherInput {
	return OnboardTeacherInput{
		Name:        "Jane Doe",
		Email:       email,
		Phone:       "0900000000",
		Status:      "ACTIVE",
		Address:     "1 School Road",
		PositionIDs: positionIDs,
		Degrees:     []domain.Degree{{Type: "Bachelor", School: "State University", Major: "Math", Year: 2015, IsGraduated: true}},
		StartDate:   time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func requireCode(t *testing.T, err error, code string) *apperrors.DomainError {
	t.Helper()
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code, domainErr.Error())
	return domainErr
}

func TestCreatePosition(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	p, err := f.svc.CreatePosition(ctx, CreatePositionInput{Code: " T001 ", Name: "Homeroom", Description: "Leads a class"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "T001", p.Code)
	assert.True(t, p.IsActive)
	assert.False(t, p.IsDeleted)

	inactive := false
	p2, err := f.svc.CreatePosition(ctx, CreatePositionInput{Code: "T002", Name: "Retired", IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, p2.IsActive)

	positions, err := f.svc.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 2)
	assert.Len(t, f.published, 2)
	assert.Equal(t, events.EventPositionCreated, f.published[0].Type)
}

func TestCreatePositionDuplicateCode(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.position(t, "T001")

	_, err := f.svc.CreatePosition(ctx, CreatePositionInput{Code: "T001", Name: "Again"})
	domainErr := requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, "Code is not unique", domainErr.Message)
	assert.Equal(t, 400, domainErr.HTTPStatus)

	positions, err := f.svc.ListPositions(ctx)
	require.NoError(t, err)
	assert.Len(t, positions, 1)
}

func TestCreatePositionRequiresCodeAndName(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.CreatePosition(context.Background(), CreatePositionInput{Code: "  "})
	domainErr := requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, []string{"code", "name"}, domainErr.Details["missing"])
}

func TestOnboardTeacher(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.position(t, "T001")

	teacher, err := f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID))
	require.NoError(t, err)
	assert.NotEmpty(t, teacher.ID)
	assert.Regexp(t, `^[1-9][0-9]{9}$`, teacher.Code)
	assert.Equal(t, []string{p.ID}, teacher.PositionIDs)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, teacher.AccountID, users[0].ID)
	assert.Equal(t, "jane@school.edu", users[0].Email)
	assert.Equal(t, "0900000000", users[0].PhoneNumber)
	assert.Equal(t, "1 School Road", users[0].Address)

	page, err := f.svc.ListTeachers(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, users[0].ID, page.Items[0].Account.ID)
	assert.Equal(t, "T001", page.Items[0].Positions[0].Code)

	assert.Equal(t, 1, f.recorder.outcomes["created"])
	last := f.published[len(f.published)-1]
	assert.Equal(t, events.EventTeacherOnboarded, last.Type)
	assert.Equal(t, teacher.ID, last.SubjectID)
	payload, ok := last.Payload.(events.TeacherOnboardedPayload)
	require.True(t, ok)
	assert.Equal(t, teacher.Code, payload.Code)
	assert.Equal(t, teacher.AccountID, payload.UserID)
}

func TestOnboardTeacherDuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.position(t, "T001")

	_, err := f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID))
	require.NoError(t, err)

	_, err = f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID))
	domainErr := requireCode(t, err, apperrors.CodeConflict)
	assert.Equal(t, "Email is not unique", domainErr.Message)

	page, err := f.svc.ListTeachers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, f.recorder.outcomes["conflict"])
}

func TestOnboardTeacherReportsEveryMissingField(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.OnboardTeacher(context.Background(), OnboardTeacherInput{Name: "  "})
	domainErr := requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, "Missing required fields", domainErr.Message)
	assert.Equal(t, []string{"address", "degrees", "email", "name", "phone", "position", "startDate", "status"},
		domainErr.Details["missing"])

	users, err := f.svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 1, f.recorder.outcomes["invalid"])
}

func TestOnboardTeacherRejectsEmptyCollections(t *testing.T) {
	f := newFixture(t, nil)
	in := teacherInput("jane@school.edu")
	in.PositionIDs = []string{}
	in.Degrees = []domain.Degree{}

	_, err := f.svc.OnboardTeacher(context.Background(), in)
	domainErr := requireCode(t, err, apperrors.CodeValidation)
	assert.Equal(t, []string{"degrees", "position"}, domainErr.Details["missing"])
}

func TestOnboardTeacherUnknownPosition(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.position(t, "T001")
	unknown := uuid.NewString()

	_, err := f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID, unknown))
	domainErr := requireCode(t, err, apperrors.CodeInvalidReference)
	assert.Equal(t, []string{unknown}, domainErr.Details["position"])

	_, err = f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", "not-a-uuid"))
	requireCode(t, err, apperrors.CodeInvalidReference)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestOnboardTeacherDeduplicatesPositions(t *testing.T) {
	f := newFixture(t, nil)
	p := f.position(t, "T001")

	teacher, err := f.svc.OnboardTeacher(context.Background(), teacherInput("jane@school.edu", p.ID, " "+p.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{p.ID}, teacher.PositionIDs)
}

func TestOnboardTeacherLateEmailDuplicateIsConflict(t *testing.T) {
	store := &faultyStore{Store: memory.New(), hideEmails: true}
	f := newFixture(t, store)
	ctx := context.Background()
	p := f.position(t, "T001")

	_, err := f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID))
	require.NoError(t, err)

	_, err = f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID))
	requireCode(t, err, apperrors.CodeConflict)

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1, "rejected onboarding must not leave an account behind")
}

func TestOnboardTeacherStorageFailureRollsBackAccount(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"generic failure", errors.New("connection reset")},
		{"late code collision", &repository.DuplicateError{Entity: "teacher", Field: "code"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := memory.New()
			f := newFixture(t, &faultyStore{Store: inner, createErr: tt.err})
			ctx := context.Background()
			p := f.position(t, "T001")

			_, err := f.svc.OnboardTeacher(ctx, teacherInput("jane@school.edu", p.ID))
			domainErr := requireCode(t, err, apperrors.CodeStorage)
			assert.ErrorIs(t, domainErr, tt.err)

			users, err := f.svc.ListUsers(ctx)
			require.NoError(t, err)
			assert.Empty(t, users)
			assert.Equal(t, 1, f.recorder.outcomes["failed"])
		})
	}
}

func TestListTeachersPagination(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	p := f.position(t, "T001")
	for i := 0; i < 15; i++ {
		_, err := f.svc.OnboardTeacher(ctx, teacherInput(fmt.Sprintf("t%02d@school.edu", i), p.ID))
		require.NoError(t, err)
	}

	page, err := f.svc.ListTeachers(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, page.Total)
	assert.Len(t, page.Items, 5)

	first, err := f.svc.ListTeachers(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)

	seen := map[string]bool{}
	for _, item := range append(first.Items, page.Items...) {
		seen[item.ID] = true
	}
	assert.Len(t, seen, 15)

	beyond, err := f.svc.ListTeachers(ctx, 5, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, beyond.Total)
	assert.Empty(t, beyond.Items)
}

func TestListTeachersClampsWindow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{2, 5, 2, 5},
		{1, 1000, 1, 100},
	}
	for _, tt := range tests {
		page, err := f.svc.ListTeachers(ctx, tt.page, tt.limit)
		require.NoError(t, err)
		assert.Equal(t, tt.wantPage, page.Page)
		assert.Equal(t, tt.wantLimit, page.Limit)
		assert.NotNil(t, page.Items)
	}
}

func TestListTeachersStorageFailure(t *testing.T) {
	boom := errors.New("timeout")
	f := newFixture(t, &faultyStore{Store: memory.New(), listErr: boom})

	_, err := f.svc.ListTeachers(context.Background(), 1, 10)
	domainErr := requireCode(t, err, apperrors.CodeStorage)
	assert.ErrorIs(t, domainErr, boom)
}

func TestPublishFailureDoesNotFailOnboarding(t *testing.T) {
	f := newFixture(t, nil)
	f.dispatcher.Subscribe(events.EventTeacherOnboarded, func(context.Context, events.Event) error {
		return errors.New("webhook unreachable")
	})
	p := f.position(t, "T001")

	_, err := f.svc.OnboardTeacher(context.Background(), teacherInput("jane@school.edu", p.ID))
	require.NoError(t, err)
}
