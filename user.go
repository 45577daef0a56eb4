package checkmango

import (
	"context"
	"net/http"
)

// UserAttributes describes the owner of the API key.
type UserAttributes struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type (
	User         = Resource[UserAttributes]
	UserResponse = Document[User]
)

// GetUser returns the user the API key belongs to.
func (c *Client) GetUser(ctx context.Context) (*UserResponse, error) {
	return do[UserResponse](ctx, c, request{op: "user.get", method: http.MethodGet, path: "user"})
}
