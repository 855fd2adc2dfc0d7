package apis

import (
	"context"
	"net/http"

	"github.com/alloon/photi-go/internal/clientv2"
)

// Report flags a challenge, a member or a feed.
// POST /api/reports/<targetId>
func (c *Client) Report(ctx context.Context, req ReportRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	getBody, err := clientv2.GetJsonRequestBody(req)
	if err != nil {
		return err
	}
	_, err = do[struct{}](ctx, c, call{
		method:  http.MethodPost,
		path:    "/api/reports/$(targetId)",
		params:  map[string]interface{}{"targetId": req.TargetID},
		getBody: getBody,
	}, nil)
	return err
}
