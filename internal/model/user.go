package model

type User struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Balance float64 `json:"balance"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User User `json:"user"`
}
