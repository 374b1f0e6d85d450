package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/sqlcoach/internal/config"
	"github.com/abhisek/sqlcoach/internal/progress"
	"github.com/abhisek/sqlcoach/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show saved progress for a learner",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		snap, err := progress.NewStore(cfg.UsersDir()).Load(cfg.User)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if snap == nil {
			fmt.Printf("No progress recorded for %s yet. Run `sqlcoach learn` to get started.\n", cfg.User)
			return nil
		}

		fmt.Printf("Progress for %s", snap.UserID)
		if snap.Topic != "" {
			fmt.Printf(" — %s", snap.Topic)
		}
		fmt.Println()
		fmt.Printf("Last session: %s\n", snap.LastUpdated.Local().Format("2006-01-02 15:04"))
		fmt.Printf("Mastered %d of %d subtopics (%.1f%%), currently on: %s\n\n",
			snap.SubtopicsCompleted, snap.TotalSubtopics, snap.OverallProgress, snap.CurrentSubtopic)

		printSubtopicTable(snap)

		if len(snap.WeakConcepts) > 0 {
			fmt.Println("\nWeak concepts")
			for _, w := range snap.WeakConcepts {
				fmt.Printf("  %-28s  seen %dx  (%s)\n", w.Name, w.Occurrences, w.Severity)
			}
		}
		if len(snap.ConceptGaps) > 0 {
			fmt.Printf("\nConcept gaps: %s\n", strings.Join(snap.ConceptGaps, ", "))
		}
		if snap.Pace.Category != "" {
			fmt.Printf("\nLearning pace: %s\n", snap.Pace.Category)
		}

		printLifetimeTotals(cmd, cfg, snap)
		return nil
	},
}

func printSubtopicTable(snap *progress.Snapshot) {
	ids := make([]string, 0, len(snap.Subtopics))
	for id := range snap.Subtopics {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("%-30s  %-12s  %8s  %8s\n", "Subtopic", "Status", "Mastery", "Correct")
	fmt.Println(strings.Repeat("\u2500", 66))
	for _, id := range ids {
		sub := snap.Subtopics[id]
		status := "not started"
		switch {
		case sub.MasteryAchieved:
			status = "mastered"
		case sub.TotalAttempts > 0:
			status = "in progress"
		}
		fmt.Printf("%-30s  %-12s  %7.0f%%  %3d/%-3d\n",
			truncate(sub.Name, 30), status, sub.MasteryProbability*100,
			sub.CorrectAttempts, sub.TotalAttempts)
	}
}

// printLifetimeTotals shows per-subtopic attempt counts from the event log,
// which accumulate across runs while the snapshot covers only the last one.
func printLifetimeTotals(cmd *cobra.Command, cfg config.Config, snap *progress.Snapshot) {
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return
	}
	defer s.Close()

	totals, err := s.EventRepo().AttemptTotals(context.Background(), cfg.User)
	if err != nil || len(totals) == 0 {
		return
	}

	fmt.Println("\nLifetime attempts")
	fmt.Printf("%-30s  %8s  %8s\n", "Subtopic", "Attempts", "Correct")
	fmt.Println(strings.Repeat("\u2500", 50))
	for _, t := range totals {
		name := t.SubtopicID
		if sub, ok := snap.Subtopics[t.SubtopicID]; ok && sub.Name != "" {
			name = sub.Name
		}
		fmt.Printf("%-30s  %8d  %8d\n", truncate(name, 30), t.Attempts, t.Correct)
	}
}

func init() {
	statusCmd.Flags().StringP("user", "u", "", "Learner ID to report on")
}
