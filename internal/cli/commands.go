package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"givingbank/internal/drafts"
	"givingbank/internal/forms"
	"givingbank/internal/format"
	"givingbank/internal/tiers"
	"givingbank/internal/validate"

	"github.com/spf13/cobra"
)

var errInvalid = errors.New("value is invalid")

func newLevelCommand(open opener) *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "level <hours>",
		Short: "Show the volunteer level for a number of hours",
		Long: `Level prints the level a volunteer with the given hours reaches.

Examples:
  # Calculator page levels
  givingbank-cli level 120

  # Hours page levels
  givingbank-cli level 120 --profile stars`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours := validate.Hours(args[0])
			if hours <= 0 {
				return fmt.Errorf("hours must be a positive number, got %q", args[0])
			}
			rt, _, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			p, err := rt.Profiles.Get(profile)
			if err != nil {
				return err
			}
			t := p.Lookup(hours)
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n%s\n", format.Number(hours), t.Label, t.Description)
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", tiers.Classic, "Level profile (classic or stars)")
	return cmd
}

func newCheckCommand(open opener, now func() time.Time) *cobra.Command {
	return &cobra.Command{
		Use:   "check <field> <value>",
		Short: "Check a registration value the way the site does on blur",
		Long: `Check runs the shape check for one field: email, phone, nationalId,
birthDate or totalHours. It exits non-zero when the value is rejected.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			minAge := validate.MinVolunteerAge
			if rt, cfg, err := open(); err == nil {
				minAge = cfg.MinAge
				rt.Close()
			}

			message, known := forms.CheckField(args[0], args[1], now(), minAge)
			if !known {
				return fmt.Errorf("unknown field %q", args[0])
			}
			if message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), message)
				return errInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newDraftCommand(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect saved drafts",
	}

	show := &cobra.Command{
		Use:   "show <visitor-id>",
		Short: "Print the hours form a visitor last saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, _, err := open()
			if err != nil {
				return err
			}
			defer rt.Close()

			d, err := rt.Drafts.Load(cmd.Context(), args[0], drafts.HoursKey)
			if errors.Is(err, drafts.ErrNotFound) {
				return fmt.Errorf("no saved hours for visitor %s", args[0])
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"visitor_id": d.Owner,
				"saved_at":   d.SavedAt.UTC().Format(time.RFC3339),
				"values":     d.Values,
			})
		},
	}

	cmd.AddCommand(show)
	return cmd
}
