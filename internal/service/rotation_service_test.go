package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/repository"
	"identity-web-server/internal/security"
	"identity-web-server/internal/service"
)

type MockTokenStore struct{ mock.Mock }

func (m *MockTokenStore) Insert(ctx context.Context, record *model.RefreshTokenRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockTokenStore) FindByJTI(ctx context.Context, jti string) (*model.RefreshTokenRecord, error) {
	args := m.Called(ctx, jti)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshTokenRecord), args.Error(1)
}

func (m *MockTokenStore) RevokeByID(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *MockTokenStore) RevokeAllByUser(ctx context.Context, userID int64, reason string) error {
	return m.Called(ctx, userID, reason).Error(0)
}

func (m *MockTokenStore) RevokeAllByFamily(ctx context.Context, tokenFamily string, reason string) error {
	return m.Called(ctx, tokenFamily, reason).Error(0)
}

func (m *MockTokenStore) Rotate(ctx context.Context, oldID int64, newRecord *model.RefreshTokenRecord) error {
	return m.Called(ctx, oldID, newRecord).Error(0)
}

type MockJWTService struct{ mock.Mock }

func (m *MockJWTService) SignAccessToken(user *model.User, app *model.App) (string, int64, error) {
	args := m.Called(user, app)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockJWTService) SignRefreshToken(userID int64, app *model.App, jti, tokenFamily string) (string, time.Time, error) {
	args := m.Called(userID, app, jti, tokenFamily)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockJWTService) VerifyAccessToken(tokenStr string, secret []byte) (*security.AccessClaims, error) {
	args := m.Called(tokenStr, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.AccessClaims), args.Error(1)
}

func (m *MockJWTService) VerifyRefreshToken(tokenStr string, secret []byte) (*security.RefreshClaims, error) {
	args := m.Called(tokenStr, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.RefreshClaims), args.Error(1)
}

func (m *MockJWTService) PeekAppID(tokenStr string) (int64, error) {
	args := m.Called(tokenStr)
	return args.Get(0).(int64), args.Error(1)
}

type MockAppResolver struct{ mock.Mock }

func (m *MockAppResolver) ResolveByID(ctx context.Context, id int64) (*model.App, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.App), args.Error(1)
}

func (m *MockAppResolver) ResolveByCode(ctx context.Context, code string) (*model.App, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.App), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) UpsertUser(ctx context.Context, params *ports.UpsertUserParams) (*model.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
	called chan struct{}
}

func (m *MockNotifier) NotifyReuseDetected(userID, appID int64, tokenFamily string) error {
	err := m.Called(userID, appID, tokenFamily).Error(0)
	if m.called != nil {
		m.called <- struct{}{}
	}
	return err
}

const (
	testToken  = "presented.refresh.token"
	testJTI    = "jti-1"
	testFamily = "family-1"
)

func testApp() *model.App {
	return &model.App{
		ID:        1,
		Code:      "wowa",
		JWTSecret: "app-secret",
		IsActive:  true,
	}
}

func testUser() *model.User {
	email := "user@example.com"
	return &model.User{
		ID:    42,
		AppID: 1,
		Email: &email,
	}
}

func testClaims() *security.RefreshClaims {
	claims := &security.RefreshClaims{
		AppID:       1,
		TokenFamily: testFamily,
	}
	claims.ID = testJTI
	claims.Subject = "42"
	return claims
}

// activeRecord возвращает запись с настоящим digest предъявляемого токена
func activeRecord(t *testing.T) *model.RefreshTokenRecord {
	t.Helper()
	digest, err := security.HashRefreshToken(testToken)
	require.NoError(t, err)
	return &model.RefreshTokenRecord{
		ID:          10,
		JTI:         testJTI,
		TokenFamily: testFamily,
		TokenDigest: digest,
		UserID:      42,
		AppID:       1,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func revokedRecord(t *testing.T, revokedAgo time.Duration, reason string) *model.RefreshTokenRecord {
	t.Helper()
	record := activeRecord(t)
	record.Revoked = true
	revokedAt := time.Now().Add(-revokedAgo)
	record.RevokedAt = &revokedAt
	record.RevokedReason = &reason
	return record
}

func newEngine(tokenStore *MockTokenStore, jwtService *MockJWTService, resolver *MockAppResolver, userRepo *MockUserRepository, notifier *MockNotifier) *service.RotationService {
	// типизированный nil в интерфейсе выглядит как не-nil, передаём явно
	var securityNotifier ports.SecurityNotifierInterface
	if notifier != nil {
		securityNotifier = notifier
	}
	return service.NewRotationService(tokenStore, jwtService, resolver, userRepo, securityNotifier, 5*time.Second)
}

// expectVerified настраивает моки на успешное прохождение общих шагов
// проверки: peek, resolve, verify, поиск записи
func expectVerified(jwtService *MockJWTService, resolver *MockAppResolver, tokenStore *MockTokenStore, record *model.RefreshTokenRecord) {
	jwtService.On("PeekAppID", testToken).Return(int64(1), nil)
	resolver.On("ResolveByID", mock.Anything, int64(1)).Return(testApp(), nil)
	jwtService.On("VerifyRefreshToken", testToken, []byte("app-secret")).Return(testClaims(), nil)
	tokenStore.On("FindByJTI", mock.Anything, testJTI).Return(record, nil)
}

func TestIssue_Success(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	engine := newEngine(tokenStore, jwtService, &MockAppResolver{}, &MockUserRepository{}, nil)

	expiresAt := time.Now().Add(24 * time.Hour)
	jwtService.On("SignRefreshToken", int64(42), mock.Anything, mock.Anything, mock.Anything).
		Return("new-refresh", expiresAt, nil)
	jwtService.On("SignAccessToken", mock.Anything, mock.Anything).
		Return("new-access", int64(1800), nil)
	tokenStore.On("Insert", mock.Anything, mock.MatchedBy(func(record *model.RefreshTokenRecord) bool {
		return record.JTI != "" && record.TokenFamily != "" && record.TokenDigest != "" &&
			record.UserID == 42 && record.AppID == 1
	})).Return(nil)

	tokens, err := engine.Issue(context.Background(), testUser(), testApp())

	require.NoError(t, err)
	assert.Equal(t, "new-access", tokens.AccessToken)
	assert.Equal(t, "new-refresh", tokens.RefreshToken)
	assert.Equal(t, int64(1800), tokens.ExpiresIn)
	tokenStore.AssertExpectations(t)
}

func TestIssue_NewFamilyPerLogin(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	engine := newEngine(tokenStore, jwtService, &MockAppResolver{}, &MockUserRepository{}, nil)

	var families []string
	jwtService.On("SignRefreshToken", int64(42), mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			families = append(families, args.String(3))
		}).
		Return("new-refresh", time.Now().Add(time.Hour), nil)
	jwtService.On("SignAccessToken", mock.Anything, mock.Anything).Return("new-access", int64(1800), nil)
	tokenStore.On("Insert", mock.Anything, mock.Anything).Return(nil)

	_, err := engine.Issue(context.Background(), testUser(), testApp())
	require.NoError(t, err)
	_, err = engine.Issue(context.Background(), testUser(), testApp())
	require.NoError(t, err)

	require.Len(t, families, 2)
	assert.NotEqual(t, families[0], families[1])
}

func TestRotate_Success(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	userRepo := &MockUserRepository{}
	engine := newEngine(tokenStore, jwtService, resolver, userRepo, nil)

	record := activeRecord(t)
	expectVerified(jwtService, resolver, tokenStore, record)
	userRepo.On("FindByID", mock.Anything, int64(42)).Return(testUser(), nil)
	jwtService.On("SignRefreshToken", int64(42), mock.Anything, mock.Anything, testFamily).
		Return("rotated-refresh", time.Now().Add(time.Hour), nil)
	jwtService.On("SignAccessToken", mock.Anything, mock.Anything).Return("rotated-access", int64(1800), nil)
	tokenStore.On("Rotate", mock.Anything, int64(10), mock.MatchedBy(func(newRecord *model.RefreshTokenRecord) bool {
		// наследник остаётся в том же семействе, но получает новый jti
		return newRecord.TokenFamily == testFamily && newRecord.JTI != testJTI
	})).Return(nil)

	tokens, err := engine.Rotate(context.Background(), testToken)

	require.NoError(t, err)
	assert.Equal(t, "rotated-access", tokens.AccessToken)
	assert.Equal(t, "rotated-refresh", tokens.RefreshToken)
	tokenStore.AssertExpectations(t)
}

func TestRotate_InvalidSignature(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	jwtService.On("PeekAppID", testToken).Return(int64(1), nil)
	resolver.On("ResolveByID", mock.Anything, int64(1)).Return(testApp(), nil)
	jwtService.On("VerifyRefreshToken", testToken, []byte("app-secret")).
		Return(nil, security.ErrTokenInvalid)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
	tokenStore.AssertNotCalled(t, "FindByJTI", mock.Anything, mock.Anything)
}

func TestRotate_ExpiredSignature(t *testing.T) {
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(&MockTokenStore{}, jwtService, resolver, &MockUserRepository{}, nil)

	jwtService.On("PeekAppID", testToken).Return(int64(1), nil)
	resolver.On("ResolveByID", mock.Anything, int64(1)).Return(testApp(), nil)
	jwtService.On("VerifyRefreshToken", testToken, []byte("app-secret")).
		Return(nil, security.ErrTokenExpired)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenExpired)
}

func TestRotate_RecordNotFound(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	jwtService.On("PeekAppID", testToken).Return(int64(1), nil)
	resolver.On("ResolveByID", mock.Anything, int64(1)).Return(testApp(), nil)
	jwtService.On("VerifyRefreshToken", testToken, []byte("app-secret")).Return(testClaims(), nil)
	tokenStore.On("FindByJTI", mock.Anything, testJTI).Return(nil, nil)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenNotFound)
}

func TestRotate_DigestMismatch(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := activeRecord(t)
	otherDigest, err := security.HashRefreshToken("another.token")
	require.NoError(t, err)
	record.TokenDigest = otherDigest
	expectVerified(jwtService, resolver, tokenStore, record)

	_, err = engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestRotate_RecordExpired(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := activeRecord(t)
	record.ExpiresAt = time.Now().Add(-time.Minute)
	expectVerified(jwtService, resolver, tokenStore, record)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenExpired)
	tokenStore.AssertNotCalled(t, "RevokeAllByFamily", mock.Anything, mock.Anything, mock.Anything)
}

func TestRotate_RevokedWithinGrace(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := revokedRecord(t, time.Second, model.RevokeReasonRotated)
	expectVerified(jwtService, resolver, tokenStore, record)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenAlreadyUsed)
	tokenStore.AssertNotCalled(t, "RevokeAllByFamily", mock.Anything, mock.Anything, mock.Anything)
}

func TestRotate_ReuseDetectedOutsideGrace(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	notifier := &MockNotifier{called: make(chan struct{}, 1)}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, notifier)

	record := revokedRecord(t, time.Minute, model.RevokeReasonRotated)
	expectVerified(jwtService, resolver, tokenStore, record)
	tokenStore.On("RevokeAllByFamily", mock.Anything, testFamily, model.RevokeReasonReuse).Return(nil)
	notifier.On("NotifyReuseDetected", int64(42), int64(1), testFamily).Return(nil)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenReuseDetected)
	tokenStore.AssertCalled(t, "RevokeAllByFamily", mock.Anything, testFamily, model.RevokeReasonReuse)

	select {
	case <-notifier.called:
	case <-time.After(time.Second):
		t.Fatal("security-алерт не был отправлен")
	}
}

func TestRotate_RevokedByLogoutOutsideGrace(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := revokedRecord(t, time.Minute, model.RevokeReasonLogout)
	expectVerified(jwtService, resolver, tokenStore, record)
	tokenStore.On("RevokeAllByFamily", mock.Anything, testFamily, model.RevokeReasonReuse).Return(nil)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenRevoked)
}

func TestRotate_ConcurrentConflict(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	userRepo := &MockUserRepository{}
	engine := newEngine(tokenStore, jwtService, resolver, userRepo, nil)

	record := activeRecord(t)
	expectVerified(jwtService, resolver, tokenStore, record)
	userRepo.On("FindByID", mock.Anything, int64(42)).Return(testUser(), nil)
	jwtService.On("SignRefreshToken", int64(42), mock.Anything, mock.Anything, testFamily).
		Return("rotated-refresh", time.Now().Add(time.Hour), nil)
	tokenStore.On("Rotate", mock.Anything, int64(10), mock.Anything).
		Return(repository.ErrRotationConflict)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRefreshTokenAlreadyUsed)
}

func TestRotate_StoreFailure(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	userRepo := &MockUserRepository{}
	engine := newEngine(tokenStore, jwtService, resolver, userRepo, nil)

	record := activeRecord(t)
	expectVerified(jwtService, resolver, tokenStore, record)
	userRepo.On("FindByID", mock.Anything, int64(42)).Return(testUser(), nil)
	jwtService.On("SignRefreshToken", int64(42), mock.Anything, mock.Anything, testFamily).
		Return("rotated-refresh", time.Now().Add(time.Hour), nil)
	tokenStore.On("Rotate", mock.Anything, int64(10), mock.Anything).
		Return(errors.New("соединение с БД потеряно"))

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrRotationFailed)
	jwtService.AssertNotCalled(t, "SignAccessToken", mock.Anything, mock.Anything)
}

func TestRotate_InactiveApp(t *testing.T) {
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(&MockTokenStore{}, jwtService, resolver, &MockUserRepository{}, nil)

	app := testApp()
	app.IsActive = false
	jwtService.On("PeekAppID", testToken).Return(int64(1), nil)
	resolver.On("ResolveByID", mock.Anything, int64(1)).Return(app, nil)

	_, err := engine.Rotate(context.Background(), testToken)

	assert.ErrorIs(t, err, service.ErrInvalidRefreshToken)
}

func TestRevoke_Single(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := activeRecord(t)
	expectVerified(jwtService, resolver, tokenStore, record)
	tokenStore.On("RevokeByID", mock.Anything, int64(10), model.RevokeReasonLogout).Return(nil)

	err := engine.Revoke(context.Background(), testToken, false)

	require.NoError(t, err)
	tokenStore.AssertCalled(t, "RevokeByID", mock.Anything, int64(10), model.RevokeReasonLogout)
	tokenStore.AssertNotCalled(t, "RevokeAllByUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestRevoke_AllDevices(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := activeRecord(t)
	expectVerified(jwtService, resolver, tokenStore, record)
	tokenStore.On("RevokeAllByUser", mock.Anything, int64(42), model.RevokeReasonLogoutAll).Return(nil)

	err := engine.Revoke(context.Background(), testToken, true)

	require.NoError(t, err)
	tokenStore.AssertCalled(t, "RevokeAllByUser", mock.Anything, int64(42), model.RevokeReasonLogoutAll)
}

func TestRevoke_Idempotent(t *testing.T) {
	tokenStore := &MockTokenStore{}
	jwtService := &MockJWTService{}
	resolver := &MockAppResolver{}
	engine := newEngine(tokenStore, jwtService, resolver, &MockUserRepository{}, nil)

	record := revokedRecord(t, time.Minute, model.RevokeReasonLogout)
	expectVerified(jwtService, resolver, tokenStore, record)

	err := engine.Revoke(context.Background(), testToken, false)

	require.NoError(t, err)
	tokenStore.AssertNotCalled(t, "RevokeByID", mock.Anything, mock.Anything, mock.Anything)
}
