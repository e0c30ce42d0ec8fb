package cli

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/promptguide/internal/engine"
	"github.com/roach88/promptguide/internal/ir"
)

// QuizOptions holds flags for the quiz command.
type QuizOptions struct {
	*RootOptions
	Rounds int
	Seed   uint64
}

// QuizSummary is the quiz command payload.
type QuizSummary struct {
	SessionID string `json:"session_id"`
	Score     int    `json:"score"`
	Answered  int    `json:"answered"`
	Rounds    int    `json:"rounds"`
}

// NewQuizCommand creates the quiz command.
func NewQuizCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QuizOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Answer quiz questions on stdin",
		Long: `Ask --rounds questions. Answer each with the option number or the
technique id. End of input stops the quiz early.

With --format json the questions go to stderr and only the final
summary is printed to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuiz(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Rounds, "rounds", "n", 5, "number of questions")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "fix the question order (0 = config seed or time-based)")

	return cmd
}

func runQuiz(opts *QuizOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	if opts.Rounds < 1 {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "rounds must be at least 1", nil)
	}

	var extra []engine.Option
	if opts.Seed != 0 {
		extra = append(extra, engine.WithRNG(rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1))))
	}

	e, err := opts.openEnv(ctx, f, cmd.ErrOrStderr(), extra...)
	if err != nil {
		return err
	}
	defer e.Close()

	out := f.Writer
	if f.JSON() {
		out = f.GetErrWriter()
	}

	if err := e.dispatch(ctx, f, engine.OpenQuiz()); err != nil {
		return err
	}

	in := bufio.NewScanner(cmd.InOrStdin())

rounds:
	for round := 1; round <= opts.Rounds; round++ {
		if round > 1 {
			if err := e.dispatch(ctx, f, engine.NextQuizQuestion()); err != nil {
				return err
			}
		}

		q := e.ctrl.View().Quiz
		printQuestion(out, round, opts.Rounds, q)

		for {
			fmt.Fprint(out, "> ")
			if !in.Scan() {
				fmt.Fprintln(out)
				break rounds
			}

			id, ok := parseAnswer(q, in.Text())
			if !ok {
				fmt.Fprintf(out, "Enter 1-%d or a technique id.\n", len(q.Options))
				continue
			}

			err := e.ctrl.Dispatch(ctx, engine.AnswerQuiz(id))
			if engine.IsRuntimeCode(err, engine.ErrCodeInvalidOption) {
				fmt.Fprintf(out, "%q is not one of the options.\n", id)
				continue
			}
			if err != nil {
				return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
			}
			break
		}

		printAnswer(out, e.ctrl.View().Quiz)
	}
	if err := in.Err(); err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("read answers: %v", err), nil)
	}

	qs := e.ctrl.State().Quiz
	summary := QuizSummary{
		SessionID: qs.ID,
		Score:     qs.Score,
		Answered:  qs.QuestionsAnswered,
		Rounds:    opts.Rounds,
	}
	if err := e.dispatch(ctx, f, engine.CloseQuiz()); err != nil {
		return err
	}

	return f.Success(summary, fmt.Sprintf("\nFinal score: %d / %d\n", summary.Score, summary.Answered))
}

func printQuestion(w io.Writer, round, rounds int, q *engine.QuizView) {
	fmt.Fprintf(w, "\nQuestion %d of %d · %s\n", round, rounds, q.ScoreLine())
	fmt.Fprintln(w, q.Lead)
	for _, line := range strings.Split(q.Prompt, "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	for _, o := range q.Options {
		fmt.Fprintf(w, "  %d. %s\n", o.Number, o.Title)
	}
}

func printAnswer(w io.Writer, q *engine.QuizView) {
	if q.Correct {
		fmt.Fprintln(w, "Correct!")
		return
	}
	for _, o := range q.Options {
		if o.Correct {
			fmt.Fprintf(w, "Not quite. The answer is %s.\n", o.Title)
			return
		}
	}
}

// parseAnswer accepts an option number or a technique id.
func parseAnswer(q *engine.QuizView, input string) (ir.TechniqueID, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	if n, err := strconv.Atoi(input); err == nil {
		if n < 1 || n > len(q.Options) {
			return "", false
		}
		return q.Options[n-1].ID, true
	}
	return ir.TechniqueID(input), true
}
