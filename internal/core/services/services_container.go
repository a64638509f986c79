package services

import (
	portsrepo "github.com/fxdesk/fxrates_app/internal/core/ports/repositories"
	portssvc "github.com/fxdesk/fxrates_app/internal/core/ports/services"
	"github.com/fxdesk/fxrates_app/internal/platform/config"
)

// NewServiceContainer creates a service container with properly initialized
// dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, repos.TokenRepo)
	container.Rate = NewRateService(repos.RateRepo)
	container.Token = NewTokenService(cfg, repos.TokenRepo)
	container.Auth = NewAuthService(container.User, container.Token)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}

// Compile-time interface checks for the service implementations.
var (
	_ portssvc.UserSvcFacade  = (*userService)(nil)
	_ portssvc.RateSvcFacade  = (*rateService)(nil)
	_ portssvc.AuthSvcFacade  = (*authService)(nil)
	_ portssvc.TokenSvcFacade = (*tokenService)(nil)
)
