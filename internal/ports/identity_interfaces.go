package ports

import (
	"context"

	"identity-web-server/internal/model"
)

// AppRepositoryInterface : поиск приложений-арендаторов.
// Методы возвращают (nil, nil), если приложение не найдено
type AppRepositoryInterface interface {
	FindAppByCode(ctx context.Context, code string) (*model.App, error)
	FindAppByID(ctx context.Context, id int64) (*model.App, error)
}

type UpsertUserParams struct {
	AppID        int64
	Provider     string
	ProviderID   string
	Email        *string
	Nickname     *string
	ProfileImage *string
}

type UserRepositoryInterface interface {
	UpsertUser(ctx context.Context, params *UpsertUserParams) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
}

// AppCacheInterface : короткоживущий кэш приложений.
// Промах кэша не является ошибкой — возвращается (nil, nil)
type AppCacheInterface interface {
	GetAppByID(ctx context.Context, id int64) (*model.App, error)
	GetAppByCode(ctx context.Context, code string) (*model.App, error)
	SetApp(ctx context.Context, app *model.App) error
}

// AppResolverInterface : разрешение приложения с учётом кэша
type AppResolverInterface interface {
	ResolveByID(ctx context.Context, id int64) (*model.App, error)
	ResolveByCode(ctx context.Context, code string) (*model.App, error)
}
