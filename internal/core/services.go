package core

type Services struct {
	Auth    *AuthService
	User    *UserService
	Product *ProductService
	Result  *ResultService
	Import  *ImportService
}

// NewServices wires the services. resultsDB is the administrative connection
// used only for the results table.
func NewServices(db, resultsDB DB, events EventPublisher, jwtSecret, jwtIssuer string) *Services {
	users := NewUserService(db)
	products := NewProductService(db, events)
	return &Services{
		Auth:    NewAuthService(users, jwtSecret, jwtIssuer),
		User:    users,
		Product: products,
		Result:  NewResultService(resultsDB),
		Import:  NewImportService(products),
	}
}
