package model

// UserStatus - статус аккаунта тренера.
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusTrial  UserStatus = "trial"
)

// Session - запись текущего пользователя.
type Session struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Status UserStatus `json:"status"`
}

// PlaceholderSession возвращает фиксированного пользователя, которого создаёт вход.
func PlaceholderSession() Session {
	return Session{
		ID:     "1",
		Name:   "Treinador Pro",
		Email:  "coach@elite.com",
		Status: UserStatusActive,
	}
}

// Ключи долговременного хранилища.
const (
	StateKeySession = "soccer_user"
	StateKeyHistory = "soccer_history"
)

// DefaultHistoryLimit - сколько планов хранит история.
const DefaultHistoryLimit = 10
