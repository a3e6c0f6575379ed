package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkeye/Huddle/internal/auth"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTokenCmd(t *testing.T) {
	req := require.New(t)

	out, err := run(t, "token", "--secret", "s", "--user-id", "alice", "--username", "Alice")

	req.NoError(err)
	u, err := auth.NewAuthenticator("s").Verify(strings.TrimSpace(out))
	req.NoError(err)
	req.Equal("Alice", u.Username)
}

func TestTokenCmd_SecretFromEnv(t *testing.T) {
	req := require.New(t)
	t.Setenv("HUDDLE_SECRET", "from-env")

	out, err := run(t, "token", "--user-id", "bob")

	req.NoError(err)
	u, err := auth.NewAuthenticator("from-env").Verify(strings.TrimSpace(out))
	req.NoError(err)
	req.Equal("bob", u.Username)
}

func TestUsersCmd(t *testing.T) {
	req := require.New(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"alice","username":"Alice","isOnline":true},{"id":"bob","username":"Bob","isOnline":false}]`))
	}))
	defer srv.Close()

	out, err := run(t, "users", "--server", srv.URL, "--token", "tok")
	req.NoError(err)
	req.Contains(out, "Alice")
	req.Contains(out, "yes")
	req.Contains(out, "no")

	_, err = run(t, "users", "--server", srv.URL, "--token", "wrong")
	req.ErrorContains(err, "unauthenticated")
}

func TestRoomsCmd_NeedsToken(t *testing.T) {
	t.Setenv("HUDDLE_TOKEN", "")
	_, err := run(t, "rooms")
	require.ErrorContains(t, err, "no token")
}
