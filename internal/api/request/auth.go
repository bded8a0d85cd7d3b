package request

// SignIn is the body of a JSON sign-in request.
type SignIn struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUp is the body of a JSON sign-up request.
type SignUp struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8,max=128"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
}
