package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tidewatch/tidewatch/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [kind [id]]",
		Short: "Print stored entities",
		Long: `Print entities from the state database.

With no arguments, prints every entity. With a kind, prints all entities
of that kind. With a kind and id, prints the single entity.

Example:
  tidewatch show --db ./state.db
  tidewatch show --db ./state.db global_config
  tidewatch show --db ./state.db allocation_user 0xabc...`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// ShownEntity is one row of show output. The body is re-emitted as raw
// JSON so decimal strings survive untouched.
type ShownEntity struct {
	Kind string          `json:"kind"`
	ID   string          `json:"id"`
	Body json.RawMessage `json:"body"`
}

func runShow(opts *ShowOptions, args []string, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	var rows []store.Row
	switch len(args) {
	case 0:
		rows, err = st.Dump(ctx)
	case 1:
		rows, err = st.List(ctx, args[0])
	default:
		body, ok, getErr := st.Get(ctx, args[0], args[1])
		if getErr != nil {
			err = getErr
			break
		}
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("no %s entity with id %q", args[0], args[1]))
		}
		rows = []store.Row{{Kind: args[0], ID: args[1], Body: body}}
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read database", err)
	}

	shown := make([]ShownEntity, len(rows))
	for i, row := range rows {
		shown[i] = ShownEntity{Kind: row.Kind, ID: row.ID, Body: json.RawMessage(row.Body)}
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(shown)
	}

	var b strings.Builder
	for _, e := range shown {
		fmt.Fprintf(&b, "%s/%s\t%s\n", e.Kind, e.ID, string(e.Body))
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
	return err
}
