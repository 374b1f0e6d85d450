package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/sqlcoach/internal/progress"
	"github.com/abhisek/sqlcoach/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete a learner's progress snapshot and attempt history",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd, cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		removed, err := s.EventRepo().DeleteUserAttempts(context.Background(), cfg.User)
		if err != nil {
			return fmt.Errorf("delete attempts: %w", err)
		}

		snapPath := progress.NewStore(cfg.UsersDir()).Path(cfg.User)
		hadSnapshot := true
		if err := os.Remove(snapPath); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove snapshot: %w", err)
			}
			hadSnapshot = false
		}

		if removed == 0 && !hadSnapshot {
			fmt.Printf("Nothing to reset for %s.\n", cfg.User)
			return nil
		}
		fmt.Printf("Reset %s: removed %d recorded attempts", cfg.User, removed)
		if hadSnapshot {
			fmt.Print(" and the progress snapshot")
		}
		fmt.Println(".")
		return nil
	},
}

func init() {
	resetCmd.Flags().StringP("user", "u", "", "Learner ID to reset")
}
