package models

// User is the account record, keyed by email in the users collection. The
// stored document includes the bcrypt password hash; PublicUser is the shape
// returned to clients.
type User struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Address   string     `json:"address"`
	Cart      []CartItem `json:"cart"`
	Orders    []string   `json:"orders"`
}

type PublicUser struct {
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Address   string     `json:"address"`
	Cart      []CartItem `json:"cart"`
	Orders    []string   `json:"orders"`
}

// Public strips the password hash for responses.
func (u User) Public() PublicUser {
	return PublicUser{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Address:   u.Address,
		Cart:      u.Cart,
		Orders:    u.Orders,
	}
}

// FullName joins the name fields for display, e.g. on receipts.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
