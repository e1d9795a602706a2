package domain

type User struct {
	Id    UserId `json:"id"`
	Email Email  `json:"email"`
}

type Credentials struct {
	Email    Email  `json:"email"`
	Password string `json:"password"`
}

// Account is a stored user together with its password hash.
type Account struct {
	User
	PassHash string
}
