// Package main runs the terminal admin panel for the question bank API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tlmvpsc/questionbank/config"
	"github.com/tlmvpsc/questionbank/internal/models"
	"github.com/tlmvpsc/questionbank/internal/panel"
)

var apiURI string

var rootCmd = &cobra.Command{
	Use:   "panel",
	Short: "Terminal admin panel for the question bank",
	Long:  `Log in as an admin and manage quiz questions and admin accounts.`,
	RunE:  run,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	rootCmd.Flags().StringVar(&apiURI, "api", cfg.Panel.APIURI, "question bank API base URL")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := panel.NewClient(apiURI)
	state := panel.State{}

	for {
		switch state.Phase {
		case panel.PhaseLoggedOut:
			creds, err := loginForm(state)
			if err != nil {
				return err
			}
			state = panel.Reduce(state, panel.ConnectStarted{Credentials: creds})

		case panel.PhaseConnecting:
			questions, err := client.Connect(ctx, state.Credentials)
			switch {
			case err == nil:
				state = panel.Reduce(state, panel.ConnectSucceeded{Questions: questions})
			case errors.Is(err, panel.ErrUnreachable):
				state = panel.Reduce(state, panel.ConnectFailed{Unreachable: true})
			default:
				state = panel.Reduce(state, panel.ConnectFailed{})
			}

		case panel.PhaseConnected:
			fmt.Print(panel.RenderQuestionList(state.Questions))
			action, err := menu()
			if err != nil {
				return err
			}
			if action == actionQuit {
				return nil
			}
			state = dispatch(ctx, client, state, action)
		}
	}
}

const (
	actionRefresh     = "refresh"
	actionAdd         = "add"
	actionEdit        = "edit"
	actionDelete      = "delete"
	actionAdminAdd    = "admin-add"
	actionAdminDelete = "admin-delete"
	actionQuit        = "quit"
)

func menu() (string, error) {
	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("What would you like to do?").
				Options(
					huh.NewOption("Refresh questions", actionRefresh),
					huh.NewOption("Add a question", actionAdd),
					huh.NewOption("Edit a question", actionEdit),
					huh.NewOption("Delete a question", actionDelete),
					huh.NewOption("Add an admin", actionAdminAdd),
					huh.NewOption("Delete an admin", actionAdminDelete),
					huh.NewOption("Quit", actionQuit),
				).
				Value(&action),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return action, nil
}

func dispatch(ctx context.Context, client *panel.Client, state panel.State, action string) panel.State {
	switch action {
	case actionRefresh:
		questions, err := client.ListQuestions(ctx)
		if err != nil {
			fmt.Println(describe(err))
			return state
		}
		return panel.Reduce(state, panel.QuestionsRefreshed{Questions: questions})

	case actionAdd:
		state = panel.Reduce(state, panel.EditorOpened{})
		q, ok := questionForm(models.Question{})
		if !ok {
			return panel.Reduce(state, panel.EditorClosed{})
		}
		state = panel.Reduce(state, panel.MutationStarted{})
		stored, err := client.AddQuestion(ctx, q)
		if err != nil {
			fmt.Println(describe(err))
			state = panel.Reduce(state, panel.MutationFailed{})
			return panel.Reduce(state, panel.EditorClosed{})
		}
		return panel.Reduce(state, panel.QuestionAdded{Question: stored})

	case actionEdit:
		target, ok := pickQuestion(state.Questions, "Which question do you want to edit?")
		if !ok {
			return state
		}
		state = panel.Reduce(state, panel.EditorOpened{Question: &target})
		q, ok := questionForm(target)
		if !ok {
			return panel.Reduce(state, panel.EditorClosed{})
		}
		q.ID = target.ID
		state = panel.Reduce(state, panel.MutationStarted{})
		if err := client.EditQuestion(ctx, q); err != nil {
			fmt.Println(describe(err))
			state = panel.Reduce(state, panel.MutationFailed{})
			return panel.Reduce(state, panel.EditorClosed{})
		}
		return panel.Reduce(state, panel.QuestionEdited{Question: q})

	case actionDelete:
		target, ok := pickQuestion(state.Questions, "Which question do you want to delete?")
		if !ok {
			return state
		}
		if !confirm(fmt.Sprintf("Delete %q?", target.Statement)) {
			return state
		}
		if err := client.DeleteQuestion(ctx, target.ID); err != nil {
			fmt.Println(describe(err))
			return state
		}
		return panel.Reduce(state, panel.QuestionDeleted{ID: target.ID})

	case actionAdminAdd:
		username, password, ok := adminForm()
		if !ok {
			return state
		}
		if err := client.AddAdmin(ctx, username, password); err != nil {
			fmt.Println(describe(err))
			return state
		}
		fmt.Printf("Admin %q created.\n", username)
		return state

	case actionAdminDelete:
		var username string
		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().Title("Username of the admin to delete").Value(&username),
		))
		if err := form.Run(); err != nil || username == "" {
			return state
		}
		if err := client.DeleteAdmin(ctx, username); err != nil {
			fmt.Println(describe(err))
			return state
		}
		fmt.Printf("Admin %q deleted.\n", username)
		return state
	}
	return state
}

func loginForm(state panel.State) (panel.Credentials, error) {
	fmt.Print(panel.RenderLoginBanner(state))
	var creds panel.Credentials
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&creds.Username).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("username is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password),
		),
	)
	if err := form.Run(); err != nil {
		return panel.Credentials{}, err
	}
	return creds, nil
}

// questionForm shows the editor prefilled with q. Returns false if the user
// aborted or submitted an empty statement.
func questionForm(q models.Question) (models.Question, bool) {
	statement := q.Statement
	answers := strings.Join(q.Answers, "\n")
	labels := strings.Join(q.Labels, ", ")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Statement").
				Placeholder("2+2?").
				Value(&statement).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("statement is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Answers (one per line)").
				Value(&answers),
			huh.NewInput().
				Title("Labels (comma-separated, optional)").
				Value(&labels),
		),
	)
	if err := form.Run(); err != nil {
		return models.Question{}, false
	}

	out := models.Question{
		Statement: statement,
		Answers:   splitNonEmpty(answers, "\n"),
		Labels:    splitNonEmpty(labels, ","),
	}
	if out.Statement == "" || len(out.Answers) == 0 {
		fmt.Println("A question needs a statement and at least one answer.")
		return models.Question{}, false
	}
	return out, true
}

func adminForm() (username, password string, ok bool) {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New admin username (min 3 characters)").
				Value(&username),
			huh.NewInput().
				Title("New admin password (min 8 characters)").
				EchoMode(huh.EchoModePassword).
				Value(&password),
		),
	)
	if err := form.Run(); err != nil {
		return "", "", false
	}
	return username, password, true
}

func pickQuestion(questions []models.Question, title string) (models.Question, bool) {
	if len(questions) == 0 {
		fmt.Println("There are no questions in the database.")
		return models.Question{}, false
	}
	options := make([]huh.Option[int], 0, len(questions))
	for i, q := range questions {
		options = append(options, huh.NewOption(q.Statement, i))
	}
	var idx int
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[int]().Title(title).Options(options...).Value(&idx),
	))
	if err := form.Run(); err != nil {
		return models.Question{}, false
	}
	return questions[idx], true
}

func confirm(title string) bool {
	var ok bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

func describe(err error) string {
	switch {
	case errors.Is(err, panel.ErrUnreachable):
		return panel.MsgUnreachable
	case errors.Is(err, panel.ErrUnauthorized):
		return panel.MsgBadCredentials
	default:
		return err.Error()
	}
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
