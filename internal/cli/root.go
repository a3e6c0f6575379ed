// Package cli implements huddlectl, the operator tool for a running server.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the command tree. Flags fall back to HUDDLE_* variables.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("HUDDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "huddlectl",
		Short:         "Operator tool for a Huddle server",
		Long:          `huddlectl mints development tokens and inspects who is online, which rooms exist and how file transfers are going on a running Huddle server.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("server", "http://localhost:8080", "server base url (HUDDLE_SERVER)")
	root.PersistentFlags().String("token", "", "bearer token (HUDDLE_TOKEN)")
	root.PersistentFlags().String("secret", "", "token signing secret (HUDDLE_SECRET)")
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(
		newTokenCmd(v),
		newUsersCmd(v),
		newRoomsCmd(v),
		newTransferCmd(v),
	)
	return root
}

type client struct {
	base  string
	token string
	http  *http.Client
}

func newClient(v *viper.Viper) (*client, error) {
	token := v.GetString("token")
	if token == "" {
		return nil, fmt.Errorf("no token: pass --token or set HUDDLE_TOKEN (see huddlectl token)")
	}
	return &client{
		base:  strings.TrimRight(v.GetString("server"), "/"),
		token: token,
		http:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (c *client) get(path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		return fmt.Errorf("%s: %s %s", path, resp.Status, e.Error)
	}
	return json.Unmarshal(body, out)
}
