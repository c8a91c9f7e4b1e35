package types

// FavouriteRequest is the body for adding or removing a favourite.
type FavouriteRequest struct {
	RecipeID int `json:"recipeId" binding:"required"`
}

// RegisterRequest is the body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}
