package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/vocab"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	termColor   = color.New(color.Bold)
)

func newProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	var role string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a tutor or student profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.profiles.CreateProfile(cmd.Context(), args[0], role)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "created %s %q with id %d\n", p.Role, p.Username, p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&role, "role", models.RoleStudent, "profile role (tutor or student)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			profiles, err := a.profiles.ListProfiles(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range profiles {
				fmt.Fprintf(w, "%4d  %-8s %s\n", p.ID, p.Role, p.Username)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newImportCommand() *cobra.Command {
	var studentID, tutorID int64
	cmd := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Log every entry of a vocabulary file as a mistake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := vocab.Parse(f)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var tutor *int64
			if cmd.Flags().Changed("tutor") {
				tutor = &tutorID
			}

			res, err := a.imports.ImportVocabulary(cmd.Context(), studentID, tutor, entries, time.Now())
			w := cmd.OutOrStdout()
			if res != nil {
				okColor.Fprintf(w, "imported %d entries", res.Imported)
				if res.Skipped > 0 {
					warnColor.Fprintf(w, " (skipped %d without a term)", res.Skipped)
				}
				fmt.Fprintln(w)
			}
			return err
		},
	}
	cmd.Flags().Int64Var(&studentID, "student", 0, "student profile id")
	cmd.Flags().Int64Var(&tutorID, "tutor", 0, "tutor profile id")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func newDueCommand() *cobra.Command {
	var (
		studentID int64
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "due",
		Short: "Show the cards a student can review now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.profiles.GetStudent(cmd.Context(), studentID); err != nil {
				return err
			}

			now := time.Now()
			cards, err := a.reviews.DueCards(cmd.Context(), studentID, now, limit)
			if err != nil {
				return err
			}
			printDueCards(cmd.OutOrStdout(), cards, now)
			return nil
		},
	}
	cmd.Flags().Int64Var(&studentID, "student", 0, "student profile id")
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of cards")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func printDueCards(w io.Writer, cards []models.CardWithMistake, now time.Time) {
	if len(cards) == 0 {
		okColor.Fprintln(w, "nothing due")
		return
	}
	headerColor.Fprintf(w, "%d cards due\n", len(cards))
	for _, c := range cards {
		termColor.Fprint(w, c.Term)
		if c.Correction != "" {
			fmt.Fprintf(w, " -> %s", c.Correction)
		}
		overdue := now.Sub(c.DueAt).Truncate(time.Minute)
		fmt.Fprintf(w, "  ease=%.2f interval=%dd overdue=%s\n", c.Ease, c.IntervalDays, overdue)
	}
}

func newStatsCommand() *cobra.Command {
	var studentID int64
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a student's learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			student, err := a.profiles.GetStudent(cmd.Context(), studentID)
			if err != nil {
				return err
			}

			stats, err := a.stats.GetCardStats(cmd.Context(), studentID, time.Now())
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), student.Username, stats)
			return nil
		},
	}
	cmd.Flags().Int64Var(&studentID, "student", 0, "student profile id")
	_ = cmd.MarkFlagRequired("student")
	return cmd
}

func printStats(w io.Writer, username string, stats *models.StudentStats) {
	c := stats.Cards
	headerColor.Fprintf(w, "%s\n", username)
	fmt.Fprintf(w, "  cards:       %d (new %d)\n", c.TotalCards, c.NewCards)
	fmt.Fprintf(w, "  due now:     %d\n", c.CardsDue)
	fmt.Fprintf(w, "  due soon:    %d\n", c.CardsDueSoon)
	okColor.Fprintf(w, "  mastered:    %d\n", c.CardsMastered)
	warnColor.Fprintf(w, "  struggling:  %d\n", c.CardsStruggling)
	fmt.Fprintf(w, "  accuracy:    %.1f%% (%d/%d)\n", c.Accuracy*100, c.TotalSuccess, c.TotalSuccess+c.TotalFail)
	fmt.Fprintf(w, "  avg ease:    %.2f\n", c.AvgEase)
	fmt.Fprintf(w, "  avg interval %.1fd\n", c.AvgIntervalDays)
	for _, g := range stats.Grades {
		fmt.Fprintf(w, "  %-6s %d reviews, %.1fs avg\n", g.Grade, g.Count, g.AvgTimeSeconds)
	}
}
