package entity

// Customer representa un cliente del panel de registros.
type Customer struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}
