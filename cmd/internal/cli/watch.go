package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/spf13/cobra"
)

// watchEvent mirrors the server's history feed frame.
type watchEvent struct {
	Login   string    `json:"login"`
	History [][]int   `json:"history"`
	At      time.Time `json:"at"`
}

// NewWatchCmd creates the "watch" subcommand.
func NewWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [login]",
		Short: "Stream live history snapshots until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.resolveLogin(args)
	if err != nil {
		return err
	}

	wsURL := httpToWS(s.client.BaseURL()) + "/history/" + url.PathEscape(login) + "/watch"

	ctx := cmd.Context()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	out := cmd.OutOrStdout()
	for {
		var ev watchEvent
		if err := wsjson.Read(ctx, conn, &ev); err != nil {
			if errors.Is(err, context.Canceled) ||
				websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "%s %s:\n", ev.At.Format(time.RFC3339), ev.Login)
		if len(ev.History) == 0 {
			fmt.Fprintln(out, "  (empty)")
			continue
		}
		for i, e := range ev.History {
			fmt.Fprintf(out, "  %d: %v\n", i, e)
		}
	}
}

func httpToWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}
