//go:build unit
// +build unit

package clientv2

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func readRequestBody(t *testing.T, getBody GetRequestBody) (string, http.Header) {
	params := RequestParams{Header: make(http.Header)}
	readCloser, err := getBody(&params)
	require.NoError(t, err)
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	require.NoError(t, err)
	return string(data), params.Header
}

func TestGetJsonRequestBody(t *testing.T) {
	type login struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	getBody, err := GetJsonRequestBody(login{Username: "photi", Password: "pw"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		body, header := readRequestBody(t, getBody)
		require.Equal(t, `{"username":"photi","password":"pw"}`, body)
		require.Equal(t, "application/json", header.Get("Content-Type"))
		require.Equal(t, "36", header.Get("Content-Length"))
	}
}

func TestGetFormRequestBody(t *testing.T) {
	getBody := GetFormRequestBody(map[string][]string{"keyword": {"run"}, "page": {"0"}, "size": {"10"}})

	for i := 0; i < 2; i++ {
		body, header := readRequestBody(t, getBody)
		require.Equal(t, "keyword=run&page=0&size=10", body)
		require.Equal(t, "application/x-www-form-urlencoded", header.Get("Content-Type"))
		require.Equal(t, "26", header.Get("Content-Length"))
	}
}

func TestNewRequest(t *testing.T) {
	getBody, err := GetJsonRequestBody(map[string]string{"reason": "spam"})
	require.NoError(t, err)

	ctx := WithRequestPurpose(context.Background(), RequestPurposeRefreshToken)
	req, err := NewRequest(RequestParams{
		Context:        ctx,
		Method:         RequestMethodPost,
		Url:            "https://api.photi.co.kr/api/reports/7",
		GetBody:        getBody,
		BufferResponse: true,
	})
	require.NoError(t, err)
	require.Equal(t, http.MethodPost, req.Method)
	require.EqualValues(t, len(`{"reason":"spam"}`), req.ContentLength)
	require.Equal(t, "application/json", req.Header.Get("Content-Type"))
	require.Equal(t, RequestPurposeRefreshToken, RequestPurposeFromContext(req.Context()))
	require.NotNil(t, req.Context().Value(bufferResponseContextKey{}))
	require.NotNil(t, req.GetBody)

	req, err = NewRequest(RequestParams{Url: "https://api.photi.co.kr/api/challenges/popular"})
	require.NoError(t, err)
	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, RequestPurposeDefault, RequestPurposeFromContext(req.Context()))
	require.Nil(t, req.GetBody)
}

func TestRewindRequest(t *testing.T) {
	getBody, err := GetJsonRequestBody(map[string]string{"reason": "spam"})
	require.NoError(t, err)
	req, err := NewRequest(RequestParams{Method: RequestMethodPost, Url: "https://api.photi.co.kr/api/reports/7", GetBody: getBody})
	require.NoError(t, err)

	first, err := io.ReadAll(req.Body)
	require.NoError(t, err)

	next, err := rewindRequest(req)
	require.NoError(t, err)
	second, err := io.ReadAll(next.Body)
	require.NoError(t, err)
	require.Equal(t, first, second)

	req, err = http.NewRequest(http.MethodPost, "https://api.photi.co.kr", io.NopCloser(strings.NewReader("streamed")))
	require.NoError(t, err)
	_, err = rewindRequest(req)
	require.ErrorIs(t, err, errRequestNotRewindable)
}
