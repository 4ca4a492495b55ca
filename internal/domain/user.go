package domain

// User is supplied by the external identity provider; this core never creates
// or authenticates users, it only resolves ids for guard checks and
// notification delivery.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedOn string `json:"created_on"`
	UpdatedOn string `json:"updated_on"`
}
