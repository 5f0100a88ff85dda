package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newSoloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solo",
		Short: "Single-player game commands",
	}

	cmd.AddCommand(newSoloStartCmd())
	cmd.AddCommand(newSoloGuessCmd())
	cmd.AddCommand(newSoloStateCmd())
	cmd.AddCommand(newSoloForfeitCmd())
	cmd.AddCommand(newSoloPlayCmd())

	return cmd
}

// parseDigits converts a guess like "17395" into its digits
func parseDigits(s string) ([]int, error) {
	digits := make([]int, 0, len(s))
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("guess must be digits only, got %q", s)
		}
		digits = append(digits, int(r-'0'))
	}
	return digits, nil
}

func newSoloStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <player-name>",
		Short: "Start a new single-player game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"playerName": args[0]}

			var result SoloGame

			if err := client.Post("/api/v1/solo", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSoloGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <game-id> <digits>",
		Short: "Submit a guess",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			digits, err := parseDigits(args[1])
			if err != nil {
				return err
			}

			req := map[string]any{"digits": digits}

			var result SoloGuessResult

			if err := client.Post(fmt.Sprintf("/api/v1/solo/%s/guess", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSoloStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <game-id>",
		Short: "Show game state and guess history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SoloGame

			if err := client.Get(fmt.Sprintf("/api/v1/solo/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSoloForfeitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forfeit <game-id>",
		Short: "Give up and reveal the secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SoloForfeitResult

			if err := client.Post(fmt.Sprintf("/api/v1/solo/%s/forfeit", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSoloPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <player-name>",
		Short: "Play an interactive game in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"playerName": args[0]}

			var game SoloGame
			if err := client.Post("/api/v1/solo", req, &game); err != nil {
				return err
			}

			out := NewOutput("text")
			fmt.Printf("Game %s started. Guess the 5-digit number.\n", game.GameID)
			fmt.Println("Type a guess like 17395, or 'quit' to forfeit.")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "quit" || line == "forfeit" {
					var result SoloForfeitResult
					if err := client.Post(fmt.Sprintf("/api/v1/solo/%s/forfeit", game.GameID), nil, &result); err != nil {
						return err
					}
					out.Print(result)
					return nil
				}

				digits, err := parseDigits(line)
				if err != nil {
					out.PrintError(err)
					continue
				}

				var result SoloGuessResult
				if err := client.Post(fmt.Sprintf("/api/v1/solo/%s/guess", game.GameID), map[string]any{"digits": digits}, &result); err != nil {
					out.PrintError(err)
					continue
				}
				out.Print(result)

				if result.Won {
					return nil
				}
			}

			return scanner.Err()
		},
	}
}
