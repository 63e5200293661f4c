package api

// LoginResponse is returned by POST /auth/login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UpdateUserRequest is the body of PUT /users/{id}. The id is optional;
// when present it must match the path id.
type UpdateUserRequest struct {
	ID   *int64 `json:"id,omitempty"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// MessageResponse is a plain confirmation message, used by delete.
type MessageResponse struct {
	Message string `json:"message"`
}
