package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/estimator"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/llm"
	"github.com/abhisek/sqlcoach/internal/mastery"
	"github.com/abhisek/sqlcoach/internal/pace"
	"github.com/abhisek/sqlcoach/internal/progress"
	"github.com/abhisek/sqlcoach/internal/progression"
	"github.com/abhisek/sqlcoach/internal/questiongen"
	"github.com/abhisek/sqlcoach/internal/session"
	"github.com/abhisek/sqlcoach/internal/store"
	"github.com/abhisek/sqlcoach/internal/weakness"
	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start an interactive coaching session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func init() {
	learnCmd.Flags().StringP("user", "u", "", "Learner ID the session is recorded under")
	learnCmd.Flags().String("topic", "", "Topic label for the progress report")
	learnCmd.Flags().String("subtopic", "", "Start from this subtopic (name or ID) instead of the first")
	learnCmd.Flags().StringP("difficulty", "d", "", "Initial difficulty: easy, medium, or hard")
}

// runLearn opens the content and the store, builds the coaching services,
// and hands control to the interactive session.
func runLearn(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	graph, err := curriculum.Load(cfg.Paths.Graph)
	if err != nil {
		return fmt.Errorf("load knowledge graph: %w", err)
	}
	problems, err := bank.Load(cfg.Paths.Problems)
	if err != nil {
		return fmt.Errorf("load problem bank: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	eventRepo := st.EventRepo()

	// Grading, estimation, and pace all go through the model, so a session
	// cannot start without a provider.
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Set SQLCOACH_LLM_PROVIDER and the matching API key (for example SQLCOACH_GEMINI_API_KEY).")
		return fmt.Errorf("LLM provider: %w", err)
	}

	ledger := mastery.NewLedger(graph, mastery.DefaultConfig())
	tracker := weakness.NewTracker()

	pcfg := progression.DefaultConfig()
	if sub, _ := cmd.Flags().GetString("subtopic"); sub != "" {
		pcfg.StartSubtopic = sub
	}
	if cfg.Difficulty != "" {
		pcfg.InitialDifficulty = cfg.Difficulty
	}
	ctrl, err := progression.NewController(graph, problems, ledger, tracker, pcfg)
	if err != nil {
		return fmt.Errorf("build progression: %w", err)
	}

	svc := session.Services{
		Graph:      graph,
		Ledger:     ledger,
		Tracker:    tracker,
		Controller: ctrl,
		Grader:     grading.NewGrader(provider, grading.DefaultConfig()),
		Estimator:  estimator.NewEstimator(provider, estimator.DefaultConfig()),
		Pace:       pace.NewClassifier(provider, pace.DefaultConfig()),
		Generator:  questiongen.NewGenerator(provider, questiongen.DefaultConfig()),
		Progress:   progress.NewStore(cfg.UsersDir()),
		Events:     eventRepo,
	}

	scfg := session.DefaultConfig()
	scfg.User = cfg.User
	scfg.Topic = cfg.Topic
	scfg.StatusInterval = cfg.Session.StatusInterval
	scfg.CallTimeout = time.Duration(cfg.Session.CallTimeout)

	sess := session.New(svc, scfg, os.Stdin, os.Stdout)
	return sess.Run(ctx)
}
