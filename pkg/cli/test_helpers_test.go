package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/cobra"
)

// newTestServer starts an httptest gateway that accepts admin/admin123 and
// serves a fixed three-row table to any request carrying the issued token.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	const testToken = "test-session-token"

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeTestJSON(w, http.StatusBadRequest, map[string]interface{}{"code": 400, "message": "invalid request body"})
			return
		}
		if req.Username != "admin" || req.Password != "admin123" {
			writeTestJSON(w, http.StatusUnauthorized, map[string]interface{}{"code": 401, "message": "invalid username or password"})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]string{"token": testToken, "username": "admin"})
	})
	mux.HandleFunc("GET /v1/table", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeTestJSON(w, http.StatusUnauthorized, map[string]interface{}{"code": 401, "message": "unauthorized: log in to obtain a session token"})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]interface{}{
			"table":   "demo-project.clinic.patients",
			"columns": []string{"patient_id", "age", "diagnosis"},
			"rows": [][]interface{}{
				{"P001", 34, "hypertension"},
				{"P002", 57, "diabetes"},
				{"P003", 29, "asthma"},
			},
			"row_count": 3,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeTestJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// runCommand executes the root command with args against an isolated HOME so
// no real profile config is read or written. Returns captured stdout.
func runCommand(t *testing.T, host string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append(args, "--host", host))
	err := root.Execute()
	return out.String(), err
}

// captureOut attaches fresh output buffers to a root command and returns the
// stdout buffer.
func captureOut(root *cobra.Command) *bytes.Buffer {
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	return out
}
