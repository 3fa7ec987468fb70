package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"identity-web-server/internal/metrics"
	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
	"identity-web-server/internal/repository"
	"identity-web-server/internal/security"
	"identity-web-server/internal/util"
)

// RotationService : машина состояний refresh-токенов.
//
// Запись живёт в состояниях ACTIVE -> REVOKED (терминальное); EXPIRED —
// производное состояние, вычисляемое при чтении. Повторное предъявление
// уже отозванного токена за пределами grace-периода трактуется как кража:
// отзывается всё семейство токенов, выросшее из одного логина
type RotationService struct {
	tokenStore  ports.TokenStoreInterface
	jwtService  ports.JWTServiceInterface
	appResolver ports.AppResolverInterface
	userRepo    ports.UserRepositoryInterface
	notifier    ports.SecurityNotifierInterface
	gracePeriod time.Duration
}

func NewRotationService(
	tokenStore ports.TokenStoreInterface,
	jwtService ports.JWTServiceInterface,
	appResolver ports.AppResolverInterface,
	userRepo ports.UserRepositoryInterface,
	notifier ports.SecurityNotifierInterface,
	gracePeriod time.Duration,
) *RotationService {
	return &RotationService{
		tokenStore:  tokenStore,
		jwtService:  jwtService,
		appResolver: appResolver,
		userRepo:    userRepo,
		notifier:    notifier,
		gracePeriod: gracePeriod,
	}
}

// Issue выпускает новую пару токенов при логине: новый jti, новое семейство.
// В БД сохраняется только bcrypt-digest refresh-токена
func (s *RotationService) Issue(ctx context.Context, user *model.User, app *model.App) (*model.TokensPair, error) {
	jti := uuid.New().String()
	tokenFamily := uuid.New().String()

	refreshToken, expiresAt, err := s.jwtService.SignRefreshToken(user.ID, app, jti, tokenFamily)
	if err != nil {
		return nil, util.LogError("ошибка выпуска refresh-токена", err)
	}

	digest, err := security.HashRefreshToken(refreshToken)
	if err != nil {
		return nil, util.LogError("ошибка хэширования refresh-токена", err)
	}

	record := &model.RefreshTokenRecord{
		JTI:         jti,
		TokenFamily: tokenFamily,
		TokenDigest: digest,
		UserID:      user.ID,
		AppID:       app.ID,
		ExpiresAt:   expiresAt,
	}

	if err := s.tokenStore.Insert(ctx, record); err != nil {
		// коллизия jti/digest при криптослучайной генерации — сбой, а не ветка политики
		return nil, util.LogError("ошибка сохранения refresh-токена", err)
	}

	accessToken, expiresIn, err := s.jwtService.SignAccessToken(user, app)
	if err != nil {
		return nil, util.LogError("ошибка выпуска access-токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// resolveAndVerify выполняет общие для Rotate и Revoke шаги:
// выбор приложения по appId из токена, проверка подписи, поиск записи
// по jti и сверка digest
func (s *RotationService) resolveAndVerify(ctx context.Context, presentedToken string) (*model.App, *security.RefreshClaims, *model.RefreshTokenRecord, error) {
	appID, err := s.jwtService.PeekAppID(presentedToken)
	if err != nil {
		return nil, nil, nil, ErrInvalidRefreshToken
	}

	app, err := s.appResolver.ResolveByID(ctx, appID)
	if err != nil {
		// сбой поиска приложения фатален для запроса: нельзя молча
		// подставить устаревшие данные
		return nil, nil, nil, util.LogError("не удалось разрешить приложение", err)
	}
	if app == nil || !app.IsActive {
		return nil, nil, nil, ErrInvalidRefreshToken
	}

	claims, err := s.jwtService.VerifyRefreshToken(presentedToken, []byte(app.JWTSecret))
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, nil, nil, ErrRefreshTokenExpired
		}
		return nil, nil, nil, ErrInvalidRefreshToken
	}

	record, err := s.tokenStore.FindByJTI(ctx, claims.ID)
	if err != nil {
		return nil, nil, nil, util.LogError("ошибка поиска записи refresh-токена", err)
	}
	if record == nil {
		return nil, nil, nil, ErrRefreshTokenNotFound
	}

	// jti настоящий, но сам токен подделан или выпущен не нами
	if !security.CompareRefreshToken(presentedToken, record.TokenDigest) {
		return nil, nil, nil, ErrInvalidRefreshToken
	}

	return app, claims, record, nil
}

// Rotate обменивает действующий refresh-токен на новую пару.
// Новый токен получает новый jti и то же семейство; старая запись
// отзывается в той же транзакции
func (s *RotationService) Rotate(ctx context.Context, presentedToken string) (*model.TokensPair, error) {
	app, claims, record, err := s.resolveAndVerify(ctx, presentedToken)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	now := time.Now()

	if record.IsExpired(now) {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, ErrRefreshTokenExpired
	}

	if record.Revoked {
		return nil, s.handleRevokedPresentation(ctx, record, now)
	}

	user, err := s.userRepo.FindByID(ctx, record.UserID)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, util.LogError("не удалось найти пользователя для ротации", err)
	}
	if user == nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, ErrUserNotFound
	}

	newJTI := uuid.New().String()
	refreshToken, expiresAt, err := s.jwtService.SignRefreshToken(user.ID, app, newJTI, record.TokenFamily)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, util.LogError("ошибка выпуска нового refresh-токена", err)
	}

	digest, err := security.HashRefreshToken(refreshToken)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, util.LogError("ошибка хэширования нового refresh-токена", err)
	}

	newRecord := &model.RefreshTokenRecord{
		JTI:         newJTI,
		TokenFamily: record.TokenFamily,
		TokenDigest: digest,
		UserID:      user.ID,
		AppID:       app.ID,
		ExpiresAt:   expiresAt,
	}

	if err := s.tokenStore.Rotate(ctx, record.ID, newRecord); err != nil {
		if errors.Is(err, repository.ErrRotationConflict) {
			// конкурентная ротация того же токена: победитель ровно один
			metrics.RefreshTotal.WithLabelValues("failure").Inc()
			return nil, ErrRefreshTokenAlreadyUsed
		}
		// состояние хранилища неопределённо — не выдаём токены и не
		// маскируем отказ под мягкую ошибку
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		log.Printf("транзакция ротации провалилась для jti %s: %v", claims.ID, err)
		return nil, ErrRotationFailed
	}

	accessToken, expiresIn, err := s.jwtService.SignAccessToken(user, app)
	if err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		return nil, util.LogError("ошибка выпуска access-токена", err)
	}

	metrics.RefreshTotal.WithLabelValues("success").Inc()

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, nil
}

// handleRevokedPresentation реализует политику шага с отозванной записью.
// Внутри grace-периода повторное предъявление — безобидная гонка клиента
// (ретрай сети, две вкладки); за его пределами — сигнал кражи токена
func (s *RotationService) handleRevokedPresentation(ctx context.Context, record *model.RefreshTokenRecord, now time.Time) error {
	if record.RevokedAt != nil && now.Sub(*record.RevokedAt) <= s.gracePeriod {
		metrics.RefreshTotal.WithLabelValues("already_used").Inc()
		return ErrRefreshTokenAlreadyUsed
	}

	// повторное использование за пределами grace-периода: гасим всё
	// семейство — укравший один токен мог украсть и его потомков
	if err := s.tokenStore.RevokeAllByFamily(ctx, record.TokenFamily, model.RevokeReasonReuse); err != nil {
		return util.LogError("не удалось отозвать семейство токенов", err)
	}

	metrics.ReuseDetectedTotal.Inc()
	log.Printf("SECURITY: обнаружено повторное использование refresh-токена, семейство %s отозвано (user %d, app %d)",
		record.TokenFamily, record.UserID, record.AppID)

	if s.notifier != nil {
		go func(userID, appID int64, family string) {
			if err := s.notifier.NotifyReuseDetected(userID, appID, family); err != nil {
				log.Printf("ошибка отправки security-алерта: %v", err)
			}
		}(record.UserID, record.AppID, record.TokenFamily)
	}

	if record.RevokedReason != nil && *record.RevokedReason != model.RevokeReasonRotated {
		// токен был отозван явно (logout или предыдущий reuse), а не ротацией
		return ErrRefreshTokenRevoked
	}
	return ErrRefreshTokenReuseDetected
}

// Revoke завершает сессию. Повторный отзыв того же токена — no-op:
// logout идемпотентен
func (s *RotationService) Revoke(ctx context.Context, presentedToken string, revokeAll bool) error {
	_, _, record, err := s.resolveAndVerify(ctx, presentedToken)
	if err != nil {
		return err
	}

	if record.Revoked {
		return nil
	}

	if revokeAll {
		if err := s.tokenStore.RevokeAllByUser(ctx, record.UserID, model.RevokeReasonLogoutAll); err != nil {
			return util.LogError("не удалось отозвать токены пользователя", err)
		}
	} else {
		if err := s.tokenStore.RevokeByID(ctx, record.ID, model.RevokeReasonLogout); err != nil {
			return util.LogError("не удалось отозвать refresh-токен", err)
		}
	}

	metrics.LogoutTotal.Inc()
	log.Printf("сессия завершена: user %d, app %d, revokeAll=%v", record.UserID, record.AppID, revokeAll)

	return nil
}
