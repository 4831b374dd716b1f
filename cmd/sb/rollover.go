package main

import (
	"fmt"

	"github.com/amonks/shiftbook/businessday"
	"github.com/amonks/shiftbook/internal/listflags"
	"github.com/amonks/shiftbook/internal/ui"
	"github.com/spf13/cobra"
)

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Archive the previous day and start today's checklist",
	Long: `Archive the previous business day and seed today's checklist from the
template. Every other command does this automatically; running it twice on
the same business day does nothing.`,
	Args:        cobra.NoArgs,
	RunE:        runRollover,
	Annotations: map[string]string{annotationNoRollover: "true"},
}

var statusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show the business day, rollover state and store",
	Args:        cobra.NoArgs,
	RunE:        runStatus,
	Annotations: map[string]string{annotationNoRollover: "true"},
}

var statusJSON bool

func init() {
	rootCmd.AddCommand(rolloverCmd, statusCmd)
	listflags.AddJSONFlag(statusCmd, &statusJSON)
}

func runRollover(cmd *cobra.Command, args []string) error {
	result, err := current.book.Rollover()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !result.Ran {
		fmt.Fprintf(out, "Already rolled over for %s\n", result.Today)
		return nil
	}
	if result.Archived {
		fmt.Fprintf(out, "Archived %s\n", result.Previous)
	} else {
		fmt.Fprintf(out, "Nothing to archive for %s\n", result.Previous)
	}
	fmt.Fprintf(out, "Started %s\n", result.Today)
	return nil
}

type statusView struct {
	BusinessDay     businessday.Key `json:"business_day"`
	ViewedDay       businessday.Key `json:"viewed_day"`
	LastRollover    businessday.Key `json:"last_rollover"`
	RolloverPending bool            `json:"rollover_pending"`
	Policy          string          `json:"policy"`
	Backend         string          `json:"backend"`
	StateDir        string          `json:"state_dir"`
	Namespace       string          `json:"namespace"`
	ArchivedDays    int             `json:"archived_days"`
	Admin           bool            `json:"admin"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	viewed, err := current.viewedDay()
	if err != nil {
		return err
	}
	last, _, err := current.book.LastRollover()
	if err != nil {
		return err
	}
	entries, err := current.book.ListArchive()
	if err != nil {
		return err
	}
	admin, err := current.settings.Admin()
	if err != nil {
		return err
	}

	today := current.book.BusinessDay()
	status := statusView{
		BusinessDay:     today,
		ViewedDay:       viewed,
		LastRollover:    last,
		RolloverPending: last != today,
		Policy:          current.book.Policy().Describe(),
		Backend:         current.cfg.Store.Backend,
		StateDir:        current.stateDir,
		Namespace:       current.cfg.Store.Namespace,
		ArchivedDays:    len(entries),
		Admin:           admin,
	}
	if statusJSON {
		return encodeJSON(cmd.OutOrStdout(), status)
	}

	lastLabel := string(status.LastRollover)
	if lastLabel == "" {
		lastLabel = "never"
	}
	if status.RolloverPending {
		lastLabel += " " + ui.Warn("(pending)")
	}
	adminLabel := "off"
	if status.Admin {
		adminLabel = "on"
	}

	rows := [][]string{
		{"Business day:", fmt.Sprintf("%s (%s)", status.BusinessDay, ui.WeekdayDE(status.BusinessDay.Weekday()))},
		{"Viewed day:", string(status.ViewedDay)},
		{"Last rollover:", lastLabel},
		{"Policy:", status.Policy},
		{"Store:", fmt.Sprintf("%s %s", status.Backend, status.StateDir)},
		{"Namespace:", status.Namespace},
		{"Archived days:", fmt.Sprintf("%d", status.ArchivedDays)},
		{"Admin mode:", adminLabel},
	}
	for _, row := range rows {
		fmt.Fprintf(cmd.OutOrStdout(), "%-15s %s\n", row[0], row[1])
	}
	return nil
}
