package supabase

// userResponse é o subconjunto de GET /auth/v1/user que usamos.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Error   string `json:"error_description"`
}
