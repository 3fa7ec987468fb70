package service

import (
	"context"
	"log"

	"identity-web-server/internal/model"
	"identity-web-server/internal/ports"
)

// AppResolver разрешает приложение-арендатора через кэш с фолбэком в БД.
// Кэш внедряется явно и принадлежит области сборки сервиса,
// а не глобальному состоянию процесса
type AppResolver struct {
	appRepository ports.AppRepositoryInterface
	appCache      ports.AppCacheInterface
}

func NewAppResolver(appRepository ports.AppRepositoryInterface, appCache ports.AppCacheInterface) *AppResolver {
	return &AppResolver{appRepository, appCache}
}

// ResolveByID возвращает (nil, nil), если приложение не найдено
func (r *AppResolver) ResolveByID(ctx context.Context, id int64) (*model.App, error) {
	if r.appCache != nil {
		app, err := r.appCache.GetAppByID(ctx, id)
		if err != nil {
			log.Printf("ошибка чтения кэша приложений, идём в БД: %v", err)
		} else if app != nil {
			return app, nil
		}
	}

	app, err := r.appRepository.FindAppByID(ctx, id)
	if err != nil || app == nil {
		return app, err
	}

	r.cache(ctx, app)
	return app, nil
}

// ResolveByCode возвращает (nil, nil), если приложение не найдено
func (r *AppResolver) ResolveByCode(ctx context.Context, code string) (*model.App, error) {
	if r.appCache != nil {
		app, err := r.appCache.GetAppByCode(ctx, code)
		if err != nil {
			log.Printf("ошибка чтения кэша приложений, идём в БД: %v", err)
		} else if app != nil {
			return app, nil
		}
	}

	app, err := r.appRepository.FindAppByCode(ctx, code)
	if err != nil || app == nil {
		return app, err
	}

	r.cache(ctx, app)
	return app, nil
}

func (r *AppResolver) cache(ctx context.Context, app *model.App) {
	if r.appCache == nil {
		return
	}
	if err := r.appCache.SetApp(ctx, app); err != nil {
		log.Printf("не удалось положить приложение в кэш: %v", err)
	}
}
