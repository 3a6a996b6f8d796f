package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewSortCmd creates the "sort" subcommand.
func NewSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort <int> [int...]",
		Short: "Sort integers on the server and append the result to history",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSort,
	}

	cmd.Flags().String("login", "", "Login to sort for (default: stored login)")

	return cmd
}

func runSort(cmd *cobra.Command, args []string) error {
	arr := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("not an integer: %q", a)
		}
		arr = append(arr, n)
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.loginFromFlag(cmd)
	if err != nil {
		return err
	}

	sorted, err := s.client.Sort(cmd.Context(), login, arr)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "sorted: %v\n", sorted)
	return nil
}

// NewHistoryCmd creates the "history" subcommand.
func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history [login]",
		Short: "Show the stored history, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.resolveLogin(args)
	if err != nil {
		return err
	}

	entries, err := s.client.History(cmd.Context(), login)
	if err != nil {
		return err
	}

	printEntries(cmd, entries, 0)
	return nil
}

// NewSliceCmd creates the "slice" subcommand.
func NewSliceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slice [login]",
		Short: "Show history entries in [start, end)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSlice,
	}

	cmd.Flags().Int("start", 0, "First entry index (inclusive)")
	cmd.Flags().Int("end", 0, "Last entry index (exclusive)")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func runSlice(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetInt("start")
	end, _ := cmd.Flags().GetInt("end")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.resolveLogin(args)
	if err != nil {
		return err
	}

	entries, err := s.client.Slice(cmd.Context(), login, start, end)
	if err != nil {
		return err
	}

	printEntries(cmd, entries, start)
	return nil
}

// NewInsertCmd creates the "insert" subcommand.
func NewInsertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert [login]",
		Short: "Insert an element into the last stored array",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInsert,
	}

	cmd.Flags().String("position", "", "Insertion point: start | end | after")
	cmd.Flags().Int("element", 0, "Element to insert")
	cmd.Flags().Int("index", 0, "Element index the new value goes after (position=after)")
	_ = cmd.MarkFlagRequired("position")
	_ = cmd.MarkFlagRequired("element")

	return cmd
}

func runInsert(cmd *cobra.Command, args []string) error {
	position, _ := cmd.Flags().GetString("position")
	element, _ := cmd.Flags().GetInt("element")

	var index *int
	if cmd.Flags().Changed("index") {
		i, _ := cmd.Flags().GetInt("index")
		index = &i
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.resolveLogin(args)
	if err != nil {
		return err
	}

	updated, err := s.client.Insert(cmd.Context(), login, position, element, index)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "updated: %v\n", updated)
	return nil
}

// NewRemoveCmd creates the "remove" subcommand.
func NewRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove [login]",
		Short: "Delete one history entry by index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRemove,
	}

	cmd.Flags().Int("index", 0, "History entry index to delete")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func runRemove(cmd *cobra.Command, args []string) error {
	index, _ := cmd.Flags().GetInt("index")

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.resolveLogin(args)
	if err != nil {
		return err
	}

	removed, err := s.client.Remove(cmd.Context(), login, index)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "deleted: %v\n", removed)
	return nil
}

// NewClearCmd creates the "clear" subcommand.
func NewClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [login]",
		Short: "Delete the whole stored history",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runClear,
	}
}

func runClear(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	login, err := s.resolveLogin(args)
	if err != nil {
		return err
	}

	if err := s.client.Clear(cmd.Context(), login); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "history for %s deleted\n", login)
	return nil
}

// loginFromFlag resolves the --login flag with the state file as fallback.
func (s *session) loginFromFlag(cmd *cobra.Command) (string, error) {
	login, _ := cmd.Flags().GetString("login")
	if login != "" {
		return login, nil
	}
	return s.resolveLogin(nil)
}

func printEntries(cmd *cobra.Command, entries [][]int, offset int) {
	out := cmd.OutOrStdout()
	for i, e := range entries {
		fmt.Fprintf(out, "%d: %v\n", offset+i, e)
	}
}
