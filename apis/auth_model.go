package apis

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignUpRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verificationCode" validate:"required"`
	Username         string `json:"username" validate:"required,min=5,max=20"`
	Password         string `json:"password" validate:"required,min=8,max=30"`
	PasswordReEnter  string `json:"passwordReEnter" validate:"required,eqfield=Password"`
}

type User struct {
	UserID            int64  `json:"userId"`
	Username          string `json:"username"`
	Email             string `json:"email,omitempty"`
	ImageURL          string `json:"imageUrl,omitempty"`
	TempPasswordLogin bool   `json:"tempPasswordLogin,omitempty"`
}

// tokenData is the optional token pair inside an auth response body.
type tokenData struct {
	User
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
