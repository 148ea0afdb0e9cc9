package user

// Credentials - тело запроса на вход
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse - ответ бэкенда на успешный вход
type LoginResponse struct {
	Token string `json:"token"`
}
