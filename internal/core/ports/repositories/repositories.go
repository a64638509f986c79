package repositories

// RepositoryProvider bundles the repository facades needed to wire the
// service layer.
type RepositoryProvider struct {
	UserRepo  UserRepositoryFacade
	RateRepo  RateRepositoryFacade
	TokenRepo TokenRepositoryFacade
}
