package apis

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alloon/photi-go/internal/clientv2"
)

const defaultSearchPageSize = 10

// PopularChallenges lists the challenges with the most members.
// GET /api/challenges/popular
func (c *Client) PopularChallenges(ctx context.Context) ([]ChallengeSummary, error) {
	var ret Response[[]ChallengeSummary]
	if _, err := do(ctx, c, call{method: http.MethodGet, path: "/api/challenges/popular"}, &ret); err != nil {
		return nil, err
	}
	return ret.Data, nil
}

// SearchChallenges searches challenges by name.
// GET /api/challenges/search/name
func (c *Client) SearchChallenges(ctx context.Context, req SearchChallengesRequest) (*Slice[ChallengeSummary], error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Size == 0 {
		req.Size = defaultSearchPageSize
	}
	query := url.Values{
		"keyword": {req.Keyword},
		"page":    {strconv.Itoa(req.Page)},
		"size":    {strconv.Itoa(req.Size)},
	}
	var ret Response[Slice[ChallengeSummary]]
	if _, err := do(ctx, c, call{method: http.MethodGet, path: "/api/challenges/search/name", query: query}, &ret); err != nil {
		return nil, err
	}
	return &ret.Data, nil
}

// GetChallenge returns the details of a challenge.
// GET /api/challenges/<id>
func (c *Client) GetChallenge(ctx context.Context, challengeID int64) (*Challenge, error) {
	if challengeID <= 0 {
		return nil, ErrInvalidArgs
	}
	var ret Response[Challenge]
	if _, err := do(ctx, c, call{
		method: http.MethodGet,
		path:   "/api/challenges/$(challengeId)",
		params: map[string]interface{}{"challengeId": challengeID},
	}, &ret); err != nil {
		return nil, err
	}
	return &ret.Data, nil
}

// JoinChallenge joins the signed-in user to a challenge.
// POST /api/challenges/<id>/join
func (c *Client) JoinChallenge(ctx context.Context, req JoinChallengeRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	getBody, err := clientv2.GetJsonRequestBody(req)
	if err != nil {
		return err
	}
	_, err = do[struct{}](ctx, c, call{
		method:  http.MethodPost,
		path:    "/api/challenges/$(challengeId)/join",
		params:  map[string]interface{}{"challengeId": req.ChallengeID},
		getBody: getBody,
	}, nil)
	return err
}

// SubmitProof uploads a proof image to a challenge feed. The image is read
// again if the request has to be resent.
// POST /api/challenges/<id>/feeds
func (c *Client) SubmitProof(ctx context.Context, req SubmitProofRequest) (*Feed, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	form := new(clientv2.MultipartForm).SetFile("imageFile", req.FileName, contentType, req.Image)

	var ret Response[Feed]
	if _, err := do(ctx, c, call{
		method:  http.MethodPost,
		path:    "/api/challenges/$(challengeId)/feeds",
		params:  map[string]interface{}{"challengeId": req.ChallengeID},
		getBody: clientv2.GetMultipartFormRequestBody(form),
	}, &ret); err != nil {
		return nil, err
	}
	return &ret.Data, nil
}
