package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"coachai/internal/coach"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Work with saved plans",
	Long:  `List, show, and delete the plans saved from past coaching sessions.`,
	RunE:  runPlansList,
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans",
	RunE:  runPlansList,
}

var plansShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansShow,
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansDelete,
}

func init() {
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansShowCmd)
	plansCmd.AddCommand(plansDeleteCmd)
}

func runPlansList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	session, err := e.currentSession()
	if err != nil {
		return err
	}

	plans, err := e.store.ListPlans(session.User.ID)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}
	if len(plans) == 0 {
		fmt.Println("No saved plans.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tGOAL\tSTEPS\tSAVED")
	for _, p := range plans {
		steps := 0
		if p.Plan != nil {
			steps = len(p.Plan.Steps)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Goal, steps, formatAge(p.CreatedAt))
	}
	return w.Flush()
}

func runPlansShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	session, err := e.currentSession()
	if err != nil {
		return err
	}

	saved, err := e.store.GetPlan(session.User.ID, args[0])
	if err != nil {
		return fmt.Errorf("failed to load plan %s: %w", args[0], err)
	}

	printPlan(saved)
	return nil
}

func runPlansDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	session, err := e.currentSession()
	if err != nil {
		return err
	}

	if err := e.store.DeletePlan(session.User.ID, args[0]); err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", args[0], err)
	}
	fmt.Printf("Deleted plan %s\n", args[0])
	return nil
}

// printPlan writes a saved plan in a plain text layout.
func printPlan(saved *coach.SavedPlan) {
	fmt.Printf("Goal: %s\n", saved.Goal)
	fmt.Printf("Saved: %s\n", saved.CreatedAt.Format(time.RFC1123))

	p := saved.Plan
	if p == nil {
		return
	}
	if p.OriginalGoal != "" && p.OriginalGoal != p.Goal {
		fmt.Printf("Originally: %s\n", p.OriginalGoal)
		if p.GoalChangedReason != "" {
			fmt.Printf("Adjusted because: %s\n", p.GoalChangedReason)
		}
	}

	fmt.Println("\nSteps:")
	for _, step := range p.Steps {
		fmt.Printf("  %d. %s\n", step.StepNumber, step.Do)
		if step.Why != "" {
			fmt.Printf("     Why: %s\n", step.Why)
		}
		if step.Check != "" {
			fmt.Printf("     Check: %s\n", step.Check)
		}
		for _, r := range step.Resources {
			fmt.Printf("     - %s\n", r)
		}
	}

	if len(p.Tips) > 0 {
		fmt.Println("\nTips:")
		for _, tip := range p.Tips {
			fmt.Printf("  - %s\n", tip)
		}
	}
}

// formatAge returns a human-readable relative time string.
func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
