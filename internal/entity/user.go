package entity

type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}
