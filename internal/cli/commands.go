package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dkeye/Huddle/internal/auth"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newTokenCmd(v *viper.Viper) *cobra.Command {
	var (
		userID   string
		username string
		ttl      time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := v.GetString("secret")
			if secret == "" {
				return errors.New("no secret: pass --secret or set HUDDLE_SECRET")
			}
			if username == "" {
				username = userID
			}
			tok, err := auth.NewAuthenticator(secret).Mint(userID, username, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok)
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "identity to embed")
	cmd.Flags().StringVar(&username, "username", "", "display name (defaults to the id)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

type userRow struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Online   bool   `json:"isOnline"`
}

type roomRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Participants int    `json:"participants"`
	CreatedBy    string `json:"createdBy"`
}

type transferRow struct {
	ID             string    `json:"transferId"`
	SenderUsername string    `json:"senderUsername"`
	TargetUserID   string    `json:"targetUserId"`
	FileName       string    `json:"fileName"`
	FileSize       int64     `json:"fileSize"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newUsersCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List known users and whether they are online",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(v)
			if err != nil {
				return err
			}
			var users []userRow
			if err := c.get("/api/users", &users); err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Username", "Online"})
			for _, u := range users {
				t.AppendRow(table.Row{u.ID, u.Username, yesNo(u.Online)})
			}
			t.AppendFooter(table.Row{"", "Total", len(users)})
			t.Render()
			return nil
		},
	}
}

func newRoomsCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List active rooms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(v)
			if err != nil {
				return err
			}
			var rooms []roomRow
			if err := c.get("/api/rooms", &rooms); err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"ID", "Name", "Participants", "Created by"})
			for _, r := range rooms {
				t.AppendRow(table.Row{r.ID, r.Name, r.Participants, r.CreatedBy})
			}
			t.Render()
			return nil
		},
	}
}

func newTransferCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer <id>",
		Short: "Show the status of a file transfer you take part in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(v)
			if err != nil {
				return err
			}
			var tr transferRow
			if err := c.get("/api/transfers/"+args[0], &tr); err != nil {
				return err
			}
			t := newTable(cmd.OutOrStdout())
			t.AppendRows([]table.Row{
				{"Transfer", tr.ID},
				{"From", tr.SenderUsername},
				{"To", tr.TargetUserID},
				{"File", tr.FileName},
				{"Size", strconv.FormatInt(tr.FileSize, 10)},
				{"Status", tr.Status},
				{"Created", tr.CreatedAt.Format(time.RFC3339)},
			})
			t.Render()
			return nil
		},
	}
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	return t
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
