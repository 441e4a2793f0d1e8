package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/appspark/waitlist/internal/questionnaire"
	"github.com/appspark/waitlist/internal/signup"
	"github.com/appspark/waitlist/internal/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	itemDone    = "Done"
	itemBack    = "← Back"
	backCommand = ":back"
)

var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire <email>",
	Short: "Answer the questionnaire for an existing signup",
	Long: `Walk through the signup questionnaire in the terminal and attach the
answers to the first signup with the given email.

Pick "← Back" (or type :back on free-text questions) to return to the
previous question.

Example:
  waitlist questionnaire ada@example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runQuestionnaire,
}

func init() {
	rootCmd.AddCommand(questionnaireCmd)
}

func runQuestionnaire(cmd *cobra.Command, args []string) error {
	email := args[0]
	if !signup.ValidEmail(email) {
		return signup.ErrInvalidEmail
	}

	wiz := questionnaire.Default()
	responses, err := runWizard(cmd.OutOrStdout(), wiz)
	if err != nil {
		return err
	}

	return withStore(func(s store.Store) error {
		client := signup.New(s, signup.WithLogger(logger))
		if err := resultError(client.SubmitQuestionnaire(context.Background(), email, *responses)); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Thank you! We'll be in touch soon 🚀")
		return nil
	})
}

// runWizard prompts until the last question is answered.
func runWizard(out io.Writer, wiz *questionnaire.Wizard) (*questionnaire.Responses, error) {
	state := wiz.Start()

	for {
		q := wiz.Current(state)
		pos, total, _ := wiz.Progress(state)
		label := fmt.Sprintf("[%d/%d] %s", pos, total, q.Title)

		var responses *questionnaire.Responses
		if q.Kind == questionnaire.KindText {
			if state.Step > 0 {
				label += " (" + backCommand + " to go back)"
			}
			prompt := promptui.Prompt{Label: label, Default: state.Value(q.ID), AllowEdit: true}
			input, err := runPrompt(prompt)
			if err != nil {
				return nil, err
			}
			state, responses = answerText(wiz, state, input)
		} else {
			sel := promptui.Select{Label: label, Items: stepItems(wiz, state), Size: 10}
			idx, _, err := sel.Run()
			if err != nil {
				if err == promptui.ErrInterrupt {
					os.Exit(0)
				}
				return nil, err
			}
			if q.Kind == questionnaire.KindMultiple && idx == len(q.Options) && !wiz.CanAdvance(state) {
				fmt.Fprintln(out, "Pick at least one option to continue.")
			}
			state, responses = pickItem(wiz, state, idx)
		}

		if responses != nil {
			return responses, nil
		}
	}
}

// stepItems lists the menu entries for the current question: its options,
// then Done for multiple choice, then Back after the first question.
func stepItems(wiz *questionnaire.Wizard, s questionnaire.State) []string {
	q := wiz.Current(s)

	items := make([]string, 0, len(q.Options)+2)
	for _, opt := range q.Options {
		if q.Kind != questionnaire.KindMultiple {
			items = append(items, opt)
			continue
		}
		mark := "[ ]"
		if s.Has(q.ID, opt) {
			mark = "[x]"
		}
		items = append(items, mark+" "+opt)
	}
	if q.Kind == questionnaire.KindMultiple {
		items = append(items, itemDone)
	}
	if s.Step > 0 {
		items = append(items, itemBack)
	}
	return items
}

// pickItem applies the menu entry at idx as laid out by stepItems.
func pickItem(wiz *questionnaire.Wizard, s questionnaire.State, idx int) (questionnaire.State, *questionnaire.Responses) {
	q := wiz.Current(s)

	switch {
	case idx < len(q.Options) && q.Kind == questionnaire.KindMultiple:
		return wiz.SelectMultiple(s, q.ID, q.Options[idx]), nil
	case idx < len(q.Options):
		return wiz.Advance(wiz.SelectSingle(s, q.ID, q.Options[idx]))
	case idx == len(q.Options) && q.Kind == questionnaire.KindMultiple:
		return wiz.Advance(s)
	default:
		return wiz.Retreat(s), nil
	}
}

func answerText(wiz *questionnaire.Wizard, s questionnaire.State, input string) (questionnaire.State, *questionnaire.Responses) {
	input = strings.TrimSpace(input)
	if input == backCommand {
		return wiz.Retreat(s), nil
	}
	q := wiz.Current(s)
	return wiz.Advance(wiz.SetText(s, q.ID, input))
}
