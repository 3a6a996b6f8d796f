package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

const defaultServer = "http://127.0.0.1:8080"

// NewRootCmd builds the sortctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "sortctl",
		Short:        "Client for the sorthub sorting service",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("server", "", "Server base URL (default: state file, else "+defaultServer+")")
	root.PersistentFlags().String("state", DefaultStatePath(), "Session state file")

	root.AddCommand(NewRegisterCmd())
	root.AddCommand(NewLoginCmd())
	root.AddCommand(NewLogoutCmd())
	root.AddCommand(NewPasswdCmd())
	root.AddCommand(NewSortCmd())
	root.AddCommand(NewHistoryCmd())
	root.AddCommand(NewSliceCmd())
	root.AddCommand(NewInsertCmd())
	root.AddCommand(NewRemoveCmd())
	root.AddCommand(NewClearCmd())
	root.AddCommand(NewWatchCmd())

	return root
}

// session bundles the loaded state file and the API client for one command
// invocation.
type session struct {
	path   string
	state  State
	client *Client
}

func newSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("state")
	st, err := LoadState(path)
	if err != nil {
		return nil, err
	}

	server, _ := cmd.Flags().GetString("server")
	if server == "" {
		server = st.Server
	}
	if server == "" {
		server = defaultServer
	}

	return &session{
		path:   path,
		state:  st,
		client: NewClient(server),
	}, nil
}

// resolveLogin picks the login an array command acts on: explicit argument
// first, then the state file.
func (s *session) resolveLogin(args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	if s.state.Login != "" {
		return s.state.Login, nil
	}
	return "", errors.New("no login given and none stored; pass a login argument or run `sortctl login` first")
}

func (s *session) save() error {
	s.state.Server = s.client.BaseURL()
	return SaveState(s.path, s.state)
}
