package apis

type UserProfile struct {
	ImageURL string `json:"imageUrl"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type WithdrawRequest struct {
	Password string `json:"password" validate:"required"`
}
