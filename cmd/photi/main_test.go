//go:build unit
// +build unit

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/alloon/photi-go/client"
	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/require"
)

func envelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"code": "200 OK", "data": data})
}

func TestCommands(t *testing.T) {
	t.Setenv("PHOTI_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.toml"))
	t.Setenv("PHOTI_ACCESS_TOKEN", "")
	t.Setenv("PHOTI_REFRESH_TOKEN", "")

	r := mux.NewRouter()
	r.HandleFunc("/api/users/login", func(w http.ResponseWriter, req *http.Request) {
		envelope(w, http.StatusOK, map[string]interface{}{"username": "photi", "accessToken": "A1", "refreshToken": "R1"})
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/users/logout", func(w http.ResponseWriter, req *http.Request) {
		envelope(w, http.StatusOK, nil)
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/challenges/popular", func(w http.ResponseWriter, req *http.Request) {
		require.Equal(t, "Bearer A1", req.Header.Get("Authorization"))
		envelope(w, http.StatusOK, []map[string]interface{}{{"id": 1, "name": "run"}})
	}).Methods(http.MethodGet)
	ts := httptest.NewServer(r)
	defer ts.Close()

	var out bytes.Buffer
	stdout = &out
	run := func(args ...string) error {
		options = globalOptions{}
		parser := flags.NewParser(&options, flags.HelpFlag|flags.PassDoubleDash)
		registerCommands(parser)
		_, err := parser.ParseArgs(args)
		return err
	}
	credentialsFile := filepath.Join(t.TempDir(), "credentials.json")
	global := []string{"--base-url", ts.URL, "--credentials-file", credentialsFile, "--retry-max=-1"}

	require.NoError(t, run(append(global, "login", "-u", "photi", "-p", "secret-pw")...))
	require.Contains(t, out.String(), `"username": "photi"`)
	require.FileExists(t, credentialsFile)

	out.Reset()
	require.NoError(t, run(append(global, "popular")...))
	require.Contains(t, out.String(), `"name": "run"`)

	require.NoError(t, run(append(global, "logout")...))
	require.Error(t, run(append(global, "report", "--category", "OTHER", "--reason", "SPAM", "3")...))
}

func TestErrorMessage(t *testing.T) {
	notFound := &client.ErrorInfo{Code: http.StatusNotFound, ErrorCode: "CHALLENGE_NOT_FOUND", Err: "challenge not found", Reqid: "req-1"}
	require.Equal(t,
		`photi: status 404, reqid req-1: {"code":"CHALLENGE_NOT_FOUND","message":"challenge not found"}`,
		errorMessage(fmt.Errorf("join: %w", notFound)))
	require.Equal(t, "photi: not signed in", errorMessage(errors.New("not signed in")))
}
