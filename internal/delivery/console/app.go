package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

const ownerCLI = "cli"

var ErrQuit = errors.New("quiz stopped")

type QuizService interface {
	StartSession(ctx context.Context, owner string) (entities.Session, error)
	Answer(ctx context.Context, session entities.Session, option int) (entities.Session, error)
	Next(ctx context.Context, session entities.Session) (entities.Session, error)
}

type AnswerValidator interface {
	Resolve(item entities.QuizItem, input string) (int, error)
}

// App plays one quiz session on a terminal.
type App struct {
	service   QuizService
	validator AnswerValidator
	in        *bufio.Reader
	out       io.Writer
	noColor   bool
	panel     *Panel
}

// Options configure an App. Panel is nil unless debug output is enabled.
type Options struct {
	In      io.Reader
	Out     io.Writer
	NoColor bool
	Panel   *Panel
}

func NewApp(service QuizService, validator AnswerValidator, opts Options) *App {
	return &App{
		service:   service,
		validator: validator,
		in:        bufio.NewReader(opts.In),
		out:       opts.Out,
		noColor:   opts.NoColor,
		panel:     opts.Panel,
	}
}

// Run plays a session until it finishes, the input ends or the player quits.
// The final (or partial) score is printed in every case.
func (a *App) Run(ctx context.Context) (entities.Score, error) {
	session, err := a.service.StartSession(ctx, ownerCLI)
	if err != nil {
		return entities.Score{}, err
	}
	a.flushPanel()

	for !session.Done() {
		if err := ctx.Err(); err != nil {
			a.printSummary(session.Score)
			return session.Score, err
		}

		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, renderHeader(session, a.noColor))
		fmt.Fprintln(a.out, renderQuestion(session.Current, a.noColor))

		option, err := a.readOption(session.Current.Item)
		if err != nil {
			a.printSummary(session.Score)
			if errors.Is(err, io.EOF) {
				return session.Score, nil
			}
			return session.Score, err
		}

		session, err = a.service.Answer(ctx, session, option)
		if err != nil {
			return session.Score, err
		}
		fmt.Fprintln(a.out, renderFeedback(session, a.noColor))

		session, err = a.service.Next(ctx, session)
		a.flushPanel()
		if err != nil && !session.Done() {
			return session.Score, err
		}
		if err != nil {
			fmt.Fprintln(a.out, stylize("Could not save the result: "+err.Error(), a.noColor, colorWrong))
		}
	}

	a.printSummary(session.Score)
	return session.Score, nil
}

// readOption reads lines until one resolves to an option of item.
func (a *App) readOption(item entities.QuizItem) (int, error) {
	for {
		fmt.Fprint(a.out, "> ")

		line, err := a.in.ReadString('\n')
		input := strings.TrimSpace(line)
		if err != nil && input == "" {
			return -1, err
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case ":q", "quit", "exit":
			return -1, ErrQuit
		}

		option, resolveErr := a.validator.Resolve(item, input)
		if resolveErr == nil {
			return option, nil
		}

		fmt.Fprintln(a.out, stylize(
			fmt.Sprintf("Unrecognized answer %q. Enter a letter A-%c, a number or the option text.", input, 'A'+len(item.Options())-1),
			a.noColor, colorMuted,
		))
		if err != nil {
			return -1, err
		}
	}
}

func (a *App) printSummary(score entities.Score) {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, renderSummary(score, a.noColor))
	a.flushPanel()
}

func (a *App) flushPanel() {
	if a.panel == nil {
		return
	}
	if panel := renderPanel(a.panel.Drain(), a.noColor); panel != "" {
		fmt.Fprintln(a.out, panel)
	}
}
