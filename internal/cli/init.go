package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/appspark/waitlist/internal/config"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var envFile string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Configure the record store and write .env",
	Long: `Walk through the waitlist settings and save them to a .env file.

Choose Notion to keep records in a Notion database (you will need an
integration secret and the database id), or SQLite to keep them in a
local file.

Example:
  waitlist init
  waitlist init --env ./deploy/.env`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&envFile, "env", ".env", "dotenv file to write")
	rootCmd.AddCommand(initCmd)
}

var storeChoices = []string{
	"Notion (hosted database)",
	"SQLite (local file)",
}

func runInit(cmd *cobra.Command, args []string) error {
	c := cfg

	if _, err := os.Stat(envFile); err == nil {
		ok, err := confirm(fmt.Sprintf("%s exists. Overwrite", envFile))
		if err != nil || !ok {
			return err
		}
	}

	idx, err := selectStore()
	if err != nil {
		return err
	}
	c.Store = storeFromIndex(idx)

	if c.Store == config.StoreNotion {
		secret := promptui.Prompt{Label: "Notion integration secret", Mask: '*', Validate: validateRequired}
		if c.NotionSecret, err = runPrompt(secret); err != nil {
			return err
		}
		db := promptui.Prompt{Label: "Notion database id", Default: c.NotionDatabase, Validate: validateRequired}
		if c.NotionDatabase, err = runPrompt(db); err != nil {
			return err
		}
	} else {
		path := promptui.Prompt{Label: "Database path", Default: c.DBPath, Validate: validateRequired}
		if c.DBPath, err = runPrompt(path); err != nil {
			return err
		}
	}

	portPrompt := promptui.Prompt{Label: "Port", Default: strconv.Itoa(c.Port), Validate: validatePort}
	p, err := runPrompt(portPrompt)
	if err != nil {
		return err
	}
	c.Port, _ = strconv.Atoi(p)

	if err := c.Write(envFile); err != nil {
		return err
	}

	printNextSteps(cmd.OutOrStdout(), envFile, c)
	return nil
}

func selectStore() (int, error) {
	prompt := promptui.Select{
		Label: "Where should signups be stored",
		Items: storeChoices,
		Size:  len(storeChoices),
	}

	idx, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return 0, err
	}
	return idx, nil
}

func runPrompt(p promptui.Prompt) (string, error) {
	v, err := p.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func confirm(label string) (bool, error) {
	p := promptui.Prompt{Label: label, IsConfirm: true}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return false, err
	}
	return true, nil
}

func storeFromIndex(idx int) string {
	if idx == 1 {
		return config.StoreSQLite
	}
	return config.StoreNotion
}

func validateRequired(input string) error {
	if strings.TrimSpace(input) == "" {
		return errors.New("value is required")
	}
	return nil
}

func validatePort(input string) error {
	p, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return errors.New("port must be a number")
	}
	if p < 1 || p > 65535 {
		return errors.New("port must be between 1 and 65535")
	}
	return nil
}

func printNextSteps(w io.Writer, path string, c config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Saved settings to %s\n", path)
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w)

	switch c.Store {
	case config.StoreNotion:
		fmt.Fprintln(w, "1. Share the Notion database with your integration")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "   The database needs these properties:")
		fmt.Fprintln(w, "   Name (title), Email (email), Signed Up At (date),")
		fmt.Fprintln(w, "   Questionnaire Completed (checkbox), Completed At (date),")
		fmt.Fprintln(w, "   Interests (multi-select), Previous Experience, Skill Level,")
		fmt.Fprintln(w, "   Primary Goal, Beta Test (select), App Type, Biggest Challenge (text)")
	default:
		fmt.Fprintf(w, "1. Records will be kept in %s\n", c.DBPath)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "2. Start the server")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "   waitlist serve   (http://localhost:%d)\n", c.Port)
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  signup <email>         Add someone to the waitlist")
	fmt.Fprintln(w, "  questionnaire <email>  Answer the questionnaire for a signup")
	fmt.Fprintln(w, "  insights               Show aggregated answers")
	fmt.Fprintln(w, "  export                 Dump signup records")
	fmt.Fprintln(w, "  token                  Show insights dashboard URL")
}
