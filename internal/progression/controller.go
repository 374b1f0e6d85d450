// Package progression owns the current-subtopic cursor and decides what the
// learner sees next. Advancement is strictly sequential over the knowledge
// graph: a subtopic must be mastered before the cursor moves, and moving
// hard-resets the per-run concept and weakness state for the destination.
package progression

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/sqlcoach/internal/bank"
	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/mastery"
	"github.com/abhisek/sqlcoach/internal/weakness"
)

// Config holds configuration for the progression controller.
type Config struct {
	// StartSubtopic picks where the run begins, by subtopic name or id.
	// Empty means the head of the sequence.
	StartSubtopic string

	// InitialDifficulty seeds cluster selection before any attempt exists:
	// easy serves complexity 1, medium 2, hard 4.
	InitialDifficulty string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{InitialDifficulty: "easy"}
}

// Controller walks the subtopic sequence and selects clusters and problems.
type Controller struct {
	graph   *curriculum.Graph
	bank    *bank.Bank
	ledger  *mastery.Ledger
	tracker *weakness.Tracker
	cfg     Config
	log     *slog.Logger
	rng     *rand.Rand

	cursor    int
	asked     map[string]struct{}
	servedAny bool
}

// NewController creates a controller positioned at the configured start
// subtopic, or the sequence head when none is configured.
func NewController(graph *curriculum.Graph, b *bank.Bank, ledger *mastery.Ledger, tracker *weakness.Tracker, cfg Config) (*Controller, error) {
	c := &Controller{
		graph:   graph,
		bank:    b,
		ledger:  ledger,
		tracker: tracker,
		cfg:     cfg,
		log:     logging.New("progression"),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		asked:   make(map[string]struct{}),
	}

	if cfg.StartSubtopic != "" {
		sub, ok := graph.SubtopicByName(cfg.StartSubtopic)
		if !ok {
			var err error
			sub, err = graph.SubtopicByID(cfg.StartSubtopic)
			if err != nil {
				return nil, fmt.Errorf("subtopic %q not found, available: %s",
					cfg.StartSubtopic, strings.Join(graph.SubtopicNames(), ", "))
			}
		}
		c.cursor = graph.SequenceIndex(sub.ID)
	}

	return c, nil
}

// Current returns the subtopic under the cursor, or false when the run has
// advanced past the end of the sequence.
func (c *Controller) Current() (curriculum.Subtopic, bool) {
	seq := c.graph.Subtopics()
	if c.cursor < 0 || c.cursor >= len(seq) {
		return curriculum.Subtopic{}, false
	}
	return seq[c.cursor], true
}

// CurrentState returns the ledger state for the current subtopic, or nil
// when the run is complete.
func (c *Controller) CurrentState() *mastery.SubtopicState {
	cur, ok := c.Current()
	if !ok {
		return nil
	}
	return c.ledger.State(cur.ID)
}

// RecordAttempt records a graded answer against the current subtopic and
// feeds the judgment's weak and missing concepts to the tracker.
func (c *Controller) RecordAttempt(q mastery.QuestionFacts, answer string, j grading.Judgment) (*mastery.Attempt, *mastery.Transition, error) {
	cur, ok := c.Current()
	if !ok {
		return nil, nil, fmt.Errorf("no current subtopic: run is complete")
	}
	attempt, tr, err := c.ledger.Record(cur.ID, q, answer, j)
	if err != nil {
		return nil, nil, err
	}
	c.tracker.Ingest(j.WeakConcepts, j.MissingConcepts)
	return attempt, tr, nil
}

// ApplyEstimate folds a mastery probability into the current subtopic's
// state. The returned transition is non-nil when this estimate tipped the
// subtopic into mastery.
func (c *Controller) ApplyEstimate(probability float64) (*mastery.Transition, error) {
	cur, ok := c.Current()
	if !ok {
		return nil, fmt.Errorf("no current subtopic: run is complete")
	}
	return c.ledger.ApplyEstimate(cur.ID, probability)
}

// NextQuestion advances past any freshly mastered subtopic and selects the
// next question for the cursor's subtopic. Terminal outcomes (all subtopics
// mastered, or a subtopic with no eligible content) are normal results, not
// errors.
func (c *Controller) NextQuestion() Next {
	var adv *AdvanceEvent
	if cur, ok := c.Current(); ok && c.ledger.State(cur.ID).MasteryAchieved {
		adv = c.advance()
	}

	cur, ok := c.Current()
	if !ok {
		return Next{
			AllComplete: true,
			Message:     "Congratulations! You've mastered all subtopics!",
			Advanced:    adv,
		}
	}

	clusters := c.graph.ClustersOf(cur.ID)
	if len(clusters) == 0 {
		return Next{
			Blocked:  true,
			Message:  fmt.Sprintf("No clusters found for subtopic %q.", cur.Name),
			Advanced: adv,
		}
	}

	state := c.ledger.State(cur.ID)
	priority := c.tracker.Priority()
	cluster := c.selectCluster(clusters, state, priority)

	problems := c.bank.ByCluster(cluster.ID)
	if len(problems) == 0 {
		return Next{
			Blocked:  true,
			Message:  fmt.Sprintf("No problems available for cluster %q.", cluster.Name),
			Advanced: adv,
		}
	}

	available := c.unasked(problems)
	if len(available) == 0 {
		c.log.Debug("all problems in cluster asked, allowing repeats", "cluster", cluster.ID)
		available = problems
	}

	problem := c.selectProblem(available, priority, cluster)
	c.asked[problem.ID] = struct{}{}
	c.servedAny = true

	return Next{
		Question: &Question{
			Problem: problem,
			Info:    c.graph.Info(cur.ID, cluster),
			Text:    problem.Description,
		},
		Advanced: adv,
	}
}

// advance moves the cursor to the first unmastered subtopic in sequence
// order and hard-resets the run state that must not carry over. Returns nil
// when every subtopic is mastered.
func (c *Controller) advance() *AdvanceEvent {
	from, _ := c.Current()
	for i, sub := range c.graph.Subtopics() {
		if c.ledger.State(sub.ID).MasteryAchieved {
			continue
		}
		c.cursor = i
		c.ledger.ResetRun(sub.ID)
		c.tracker.Reset()
		c.asked = make(map[string]struct{})
		c.log.Info("advancing to next subtopic", "from", from.Name, "to", sub.Name)
		return &AdvanceEvent{From: from, To: sub}
	}
	c.cursor = c.graph.Len()
	return nil
}

func (c *Controller) unasked(problems []bank.Problem) []bank.Problem {
	var out []bank.Problem
	for _, p := range problems {
		if _, ok := c.asked[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}
