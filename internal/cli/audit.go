package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tidewatch/tidewatch/internal/entity"
	"github.com/tidewatch/tidewatch/internal/store"
)

// AuditOptions holds flags for the audit command.
type AuditOptions struct {
	*RootOptions
	Database string
}

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AuditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Recompute and verify the maintained invariants",
		Long: `Recompute every maintained aggregate from its base records and compare
against the stored totals:

  - each user's allocated total equals the sum of their allocation pairs
  - each target's allocated total equals the sum of pairs towards it
  - each holder's locked amount equals the sum of their deposit records

Exits non-zero if any invariant does not hold.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// Violation is one failed invariant check.
type Violation struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Field    string `json:"field"`
	Stored   string `json:"stored"`
	Computed string `json:"computed"`
}

// AuditResult is the audit command's output payload.
type AuditResult struct {
	Checked    int         `json:"checked"`
	Violations []Violation `json:"violations"`
}

func (r AuditResult) String() string {
	if len(r.Violations) == 0 {
		return fmt.Sprintf("audit ok: %d entities checked", r.Checked)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "audit failed: %d violation(s) in %d entities", len(r.Violations), r.Checked)
	for _, v := range r.Violations {
		fmt.Fprintf(&b, "\n  %s/%s %s: stored %s, computed %s", v.Kind, v.ID, v.Field, v.Stored, v.Computed)
	}
	return b.String()
}

func runAudit(opts *AuditOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	result, err := audit(cmd.Context(), st)
	if err != nil {
		return WrapExitError(ExitCommandError, "audit failed to read database", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := formatter.Success(result); err != nil {
		return err
	}
	if len(result.Violations) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d invariant violation(s)", len(result.Violations)))
	}
	return nil
}

func audit(ctx context.Context, st *store.Store) (AuditResult, error) {
	var result AuditResult

	userSums := map[string]decimal.Decimal{}
	targetSums := map[string]decimal.Decimal{}
	pairs, err := st.List(ctx, string(entity.KindAllocation))
	if err != nil {
		return result, err
	}
	for _, row := range pairs {
		var pair entity.Allocation
		if err := json.Unmarshal(row.Body, &pair); err != nil {
			return result, fmt.Errorf("decode %s %q: %w", row.Kind, row.ID, err)
		}
		userSums[pair.User] = userSums[pair.User].Add(pair.Allocated)
		targetSums[pair.Target] = targetSums[pair.Target].Add(pair.Allocated)
	}

	users, err := st.List(ctx, string(entity.KindAllocationUser))
	if err != nil {
		return result, err
	}
	for _, row := range users {
		var user entity.AllocationUser
		if err := json.Unmarshal(row.Body, &user); err != nil {
			return result, fmt.Errorf("decode %s %q: %w", row.Kind, row.ID, err)
		}
		result.Checked++
		if !user.AllocatedTotal.Equal(userSums[user.ID]) {
			result.Violations = append(result.Violations, Violation{
				Kind:     row.Kind,
				ID:       user.ID,
				Field:    "allocatedTotal",
				Stored:   user.AllocatedTotal.String(),
				Computed: userSums[user.ID].String(),
			})
		}
	}

	targets, err := st.List(ctx, string(entity.KindAllocationTarget))
	if err != nil {
		return result, err
	}
	for _, row := range targets {
		var target entity.AllocationTarget
		if err := json.Unmarshal(row.Body, &target); err != nil {
			return result, fmt.Errorf("decode %s %q: %w", row.Kind, row.ID, err)
		}
		result.Checked++
		if !target.AllocatedTotal.Equal(targetSums[target.ID]) {
			result.Violations = append(result.Violations, Violation{
				Kind:     row.Kind,
				ID:       target.ID,
				Field:    "allocatedTotal",
				Stored:   target.AllocatedTotal.String(),
				Computed: targetSums[target.ID].String(),
			})
		}
	}

	lockSums := map[string]decimal.Decimal{}
	deposits, err := st.List(ctx, string(entity.KindVeDeposit))
	if err != nil {
		return result, err
	}
	for _, row := range deposits {
		var dep entity.VeDeposit
		if err := json.Unmarshal(row.Body, &dep); err != nil {
			return result, fmt.Errorf("decode %s %q: %w", row.Kind, row.ID, err)
		}
		lockSums[dep.Provider] = lockSums[dep.Provider].Add(dep.Value)
	}

	locks, err := st.List(ctx, string(entity.KindVeOCEAN))
	if err != nil {
		return result, err
	}
	for _, row := range locks {
		var ve entity.VeOCEAN
		if err := json.Unmarshal(row.Body, &ve); err != nil {
			return result, fmt.Errorf("decode %s %q: %w", row.Kind, row.ID, err)
		}
		result.Checked++
		if !ve.LockedAmount.Equal(lockSums[ve.ID]) {
			result.Violations = append(result.Violations, Violation{
				Kind:     row.Kind,
				ID:       ve.ID,
				Field:    "lockedAmount",
				Stored:   ve.LockedAmount.String(),
				Computed: lockSums[ve.ID].String(),
			})
		}
	}

	if result.Violations == nil {
		result.Violations = []Violation{}
	}
	return result, nil
}
