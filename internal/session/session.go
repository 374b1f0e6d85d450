// Package session runs the interactive coaching loop: serve a question,
// read the learner's answer, grade it, fold the result into mastery
// tracking, and pick what comes next. One Session owns one user's run.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/sqlcoach/internal/curriculum"
	"github.com/abhisek/sqlcoach/internal/estimator"
	"github.com/abhisek/sqlcoach/internal/grading"
	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/mastery"
	"github.com/abhisek/sqlcoach/internal/pace"
	"github.com/abhisek/sqlcoach/internal/progress"
	"github.com/abhisek/sqlcoach/internal/progression"
	"github.com/abhisek/sqlcoach/internal/questiongen"
	"github.com/abhisek/sqlcoach/internal/store"
	"github.com/abhisek/sqlcoach/internal/weakness"
)

// Services are the collaborators a session orchestrates. Generator and
// Events may be nil; everything else is required.
type Services struct {
	Graph      *curriculum.Graph
	Ledger     *mastery.Ledger
	Tracker    *weakness.Tracker
	Controller *progression.Controller
	Grader     *grading.Grader
	Estimator  *estimator.Estimator
	Pace       *pace.Classifier
	Generator  *questiongen.Generator
	Progress   *progress.Store
	Events     store.EventRepo
}

// Config controls the loop's behavior.
type Config struct {
	User           string
	Topic          string
	StatusInterval int
	CallTimeout    time.Duration
	Width          int
}

// DefaultConfig returns the standard session settings.
func DefaultConfig() Config {
	return Config{
		User:           "default_user",
		StatusInterval: 3,
		CallTimeout:    60 * time.Second,
		Width:          80,
	}
}

// Session drives one user's coaching run over a line-based console.
type Session struct {
	svc Services
	cfg Config
	log *slog.Logger

	in  *bufio.Scanner
	out io.Writer

	profile     pace.Profile
	assessments []progress.AssessmentRecord
	questionNum int
	attempts    int
}

// New builds a session reading answers from in and writing to out.
func New(svc Services, cfg Config, in io.Reader, out io.Writer) *Session {
	if cfg.StatusInterval < 1 {
		cfg.StatusInterval = 3
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 60 * time.Second
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Session{
		svc:     svc,
		cfg:     cfg,
		log:     logging.New("session"),
		in:      scanner,
		out:     out,
		profile: pace.NewProfile(),
	}
}

// Run executes the loop until the curriculum is complete, the learner quits,
// or the context is canceled. A nil return means a clean exit.
func (s *Session) Run(ctx context.Context) error {
	s.restore()
	s.printWelcome()

	for {
		if err := ctx.Err(); err != nil {
			s.saveSnapshot()
			return err
		}

		next := s.svc.Controller.NextQuestion()
		if next.Advanced != nil {
			s.printAdvance(next.Advanced)
		}
		if next.AllComplete {
			s.printComplete(next.Message)
			s.saveSnapshot()
			return nil
		}
		if next.Blocked {
			return errors.New(next.Message)
		}

		q := next.Question
		text := s.questionText(ctx, q)
		s.questionNum++
		s.printQuestion(q, text)

		answer, ok := s.readAnswer()
		if !ok || isQuitWord(answer) {
			s.printGoodbye()
			s.saveSnapshot()
			return nil
		}

		if err := s.handleAnswer(ctx, q, text, answer); err != nil {
			return err
		}
	}
}

// handleAnswer runs the full per-answer pipeline: pace classification,
// grading, mastery bookkeeping, estimation, persistence, and feedback.
func (s *Session) handleAnswer(ctx context.Context, q *progression.Question, text, answer string) error {
	cls := s.classifyPace(ctx, text, answer)
	s.profile.Update(cls)

	concepts := q.Info.Cluster.SkillsTested
	if len(concepts) == 0 {
		concepts = q.Problem.Concepts
	}

	judgment := s.grade(ctx, grading.Question{
		Text:       text,
		Difficulty: q.Problem.Difficulty,
		Concepts:   concepts,
	}, answer)

	facts := mastery.QuestionFacts{
		QuestionID: q.Problem.ID,
		Text:       text,
		Difficulty: q.Problem.Difficulty,
		Concepts:   concepts,
	}
	attempt, _, err := s.svc.Controller.RecordAttempt(facts, answer, judgment)
	if err != nil {
		return fmt.Errorf("recording attempt: %w", err)
	}
	s.appendAttemptEvent(ctx, attempt)

	state := s.svc.Controller.CurrentState()
	est := s.assess(ctx, state)
	transition, err := s.svc.Controller.ApplyEstimate(est.MasteryProbability)
	if err != nil {
		return fmt.Errorf("applying estimate: %w", err)
	}

	s.assessments = append(s.assessments, progress.AssessmentRecord{
		Timestamp:  time.Now().UTC(),
		ProblemID:  q.Problem.ID,
		SubtopicID: q.Info.SubtopicID,
		Question:   text,
		Answer:     answer,
		Pace:       progress.PaceRecord{Category: cls.Category, Reasoning: cls.Reasoning},
		Judgment:   progress.NewJudgmentRecord(judgment),
		Estimate: progress.EstimateRecord{
			MasteryProbability: est.MasteryProbability,
			Feedback:           est.Feedback,
			Confidence:         est.Confidence,
			MasteryAchieved:    est.MasteryAchieved,
		},
	})

	s.printFeedback(judgment, est)

	mastered := transition != nil && transition.To == mastery.StatusMastered
	if mastered {
		s.printMastered(transition)
	}

	s.attempts++
	if mastered || s.attempts%s.cfg.StatusInterval == 0 {
		s.printStatus()
	}

	s.saveSnapshot()
	return nil
}

// restore seeds the assessment history and pace profile from the previous
// snapshot. Mastery state is not restored: every run re-earns it.
func (s *Session) restore() {
	snap, err := s.svc.Progress.Load(s.cfg.User)
	if err != nil {
		s.log.Warn("could not load previous progress, starting fresh", "error", err)
		return
	}
	if snap == nil {
		return
	}
	s.assessments = snap.Assessments
	if snap.Pace.Category != "" {
		s.profile = pace.Profile{Category: snap.Pace.Category, Reasoning: snap.Pace.Reasoning}
	}
	s.log.Info("previous progress loaded",
		"user", s.cfg.User,
		"assessments", len(snap.Assessments))
}

func (s *Session) saveSnapshot() {
	var current *curriculum.Subtopic
	if sub, ok := s.svc.Controller.Current(); ok {
		current = &sub
	}

	snap := progress.BuildSnapshot(progress.BuildInput{
		UserID:      s.cfg.User,
		Topic:       s.topicName(),
		Current:     current,
		States:      s.svc.Ledger.States(),
		Weak:        s.svc.Tracker.Weak(),
		Gaps:        s.svc.Tracker.Gaps(),
		Pace:        s.profile,
		Assessments: s.assessments,
	})
	if err := s.svc.Progress.Save(snap); err != nil {
		s.log.Warn("failed to save progress", "error", err)
	}
}

func (s *Session) topicName() string {
	if sub, ok := s.svc.Controller.Current(); ok {
		if name := s.svc.Graph.TopicNameOf(sub.ID); name != "" {
			return name
		}
	}
	return s.cfg.Topic
}

// questionText asks the generator to phrase the question, falling back to
// the bank problem's own description.
func (s *Session) questionText(ctx context.Context, q *progression.Question) string {
	if s.svc.Generator == nil {
		return stripHTML(q.Text)
	}
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	text := s.svc.Generator.Generate(callCtx, questiongen.Input{Info: q.Info, Problem: q.Problem})
	return stripHTML(text)
}

func (s *Session) classifyPace(ctx context.Context, question, answer string) pace.Classification {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.svc.Pace.Classify(callCtx, question, answer)
}

func (s *Session) grade(ctx context.Context, q grading.Question, answer string) grading.Judgment {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.svc.Grader.Grade(callCtx, q, answer)
}

func (s *Session) assess(ctx context.Context, state *mastery.SubtopicState) estimator.Estimate {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
	defer cancel()
	return s.svc.Estimator.Assess(callCtx, s.svc.Graph, state)
}

// appendAttemptEvent records the attempt in the event store. Failures are
// logged and never interrupt the turn.
func (s *Session) appendAttemptEvent(ctx context.Context, a *mastery.Attempt) {
	if s.svc.Events == nil {
		return
	}
	err := s.svc.Events.AppendAttempt(ctx, store.AttemptEventData{
		UserID:     s.cfg.User,
		SubtopicID: a.SubtopicID,
		ProblemID:  a.QuestionID,
		Correct:    a.IsCorrect,
		Score:      a.Score,
	})
	if err != nil {
		s.log.Warn("failed to record attempt event", "error", err)
	}
}

// readAnswer reads one line, reporting false at end of input.
func (s *Session) readAnswer() (string, bool) {
	fmt.Fprint(s.out, answerPrompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func isQuitWord(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "quit", "exit", "q":
		return true
	}
	return false
}
