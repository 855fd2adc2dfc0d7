package apis

import (
	"context"
	"net/http"

	"github.com/alloon/photi-go/internal/clientv2"
)

// Me returns the profile of the signed-in user.
// GET /api/users
func (c *Client) Me(ctx context.Context) (*UserProfile, error) {
	var ret Response[UserProfile]
	if _, err := do(ctx, c, call{method: http.MethodGet, path: "/api/users"}, &ret); err != nil {
		return nil, err
	}
	return &ret.Data, nil
}

// Withdraw disables the signed-in account.
// PATCH /api/users/disable
func (c *Client) Withdraw(ctx context.Context, req WithdrawRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	getBody, err := clientv2.GetJsonRequestBody(req)
	if err != nil {
		return err
	}
	_, err = do[struct{}](ctx, c, call{method: http.MethodPatch, path: "/api/users/disable", getBody: getBody}, nil)
	return err
}
