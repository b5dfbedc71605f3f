package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the gateway and save the session token",
		Long:  "Exchange a username and password for a session token. The token is saved to the active profile.",
		Example: `  # Log in interactively (password prompted)
  wardgate login --username admin

  # Non-interactive login (password on the flag; prefer the prompt)
  wardgate login --username admin --password admin123`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			if password == "" {
				var err error
				password, err = promptPassword(cmd)
				if err != nil {
					return err
				}
			}

			host := hostFromCmd(cmd)
			result, err := login(cmd.Context(), host, username, password)
			if err != nil {
				return err
			}

			if err := saveTokenToProfile(result.Token, host); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"token":    result.Token,
					"username": result.Username,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s. Token saved to %s\n", result.Username, ConfigPath())
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Login username")
	cmd.Flags().StringVar(&password, "password", "", "Login password (prompted when omitted)")

	return cmd
}

// promptPassword reads the password without echo when stdin is a terminal,
// falling back to a plain line read for piped input.
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
