package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case CreatedSession:
		o.printCreatedSession(v)
	case OpenSessionList:
		o.printOpenSessionList(v)
	case SoloGame:
		o.printSoloGame(v)
	case SoloGuessResult:
		o.printSoloGuessResult(v)
	case SoloForfeitResult:
		o.printSoloSummary(v.Summary)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// CreatedSession response type (matches API)
type CreatedSession struct {
	SessionID string `json:"sessionId"`
}

// OpenSession response type
type OpenSession struct {
	SessionID       string    `json:"sessionId"`
	HostDisplayName string    `json:"hostDisplayName"`
	CreatedAt       time.Time `json:"createdAt"`
}

// OpenSessionList response type
type OpenSessionList struct {
	Sessions []OpenSession `json:"sessions"`
}

// Feedback response type
type Feedback struct {
	ExactMatches int `json:"exactMatches"`
	ValueMatches int `json:"valueMatches"`
}

// GuessRecord response type
type GuessRecord struct {
	Guess     []int     `json:"guess"`
	Feedback  Feedback  `json:"feedback"`
	Timestamp time.Time `json:"timestamp"`
}

// SoloGame response type
type SoloGame struct {
	GameID     string        `json:"gameId"`
	PlayerName string        `json:"playerName"`
	GuessCount int           `json:"guessCount"`
	History    []GuessRecord `json:"history"`
	Over       bool          `json:"over"`
	Won        bool          `json:"won"`
}

// SoloSummary response type
type SoloSummary struct {
	GameID     string        `json:"gameId"`
	PlayerName string        `json:"playerName"`
	Won        bool          `json:"won"`
	Secret     []int         `json:"secret,omitempty"`
	GuessCount int           `json:"guessCount"`
	Elapsed    time.Duration `json:"elapsed"`
}

// SoloGuessResult response type
type SoloGuessResult struct {
	Guess    []int        `json:"guess"`
	Feedback Feedback     `json:"feedback"`
	Won      bool         `json:"won"`
	Summary  *SoloSummary `json:"summary,omitempty"`
}

// SoloForfeitResult response type
type SoloForfeitResult struct {
	Summary SoloSummary `json:"summary"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// digitString renders digits compactly, e.g. 17395
func digitString(digits []int) string {
	var sb strings.Builder
	for _, d := range digits {
		fmt.Fprintf(&sb, "%d", d)
	}
	return sb.String()
}

func (o *Output) printCreatedSession(s CreatedSession) {
	fmt.Printf("Session: %s\n", s.SessionID)
	fmt.Println("Share this code with your opponent to start the game.")
}

func (o *Output) printOpenSessionList(l OpenSessionList) {
	if len(l.Sessions) == 0 {
		fmt.Println("No open sessions")
		return
	}
	fmt.Printf("Open sessions (%d):\n", len(l.Sessions))
	for _, s := range l.Sessions {
		fmt.Printf("  %s - hosted by %s (since %s)\n",
			s.SessionID, s.HostDisplayName, s.CreatedAt.Format(time.RFC3339))
	}
}

func (o *Output) printSoloGame(g SoloGame) {
	fmt.Printf("Game: %s\n", g.GameID)
	fmt.Printf("Player: %s\n", g.PlayerName)
	fmt.Printf("Guesses: %d\n", g.GuessCount)

	if len(g.History) > 0 {
		fmt.Println("History:")
		for i, r := range g.History {
			fmt.Printf("  %2d. %s  exact=%d value=%d\n",
				i+1, digitString(r.Guess), r.Feedback.ExactMatches, r.Feedback.ValueMatches)
		}
	}

	if g.Won {
		fmt.Println("Status: won")
	} else if g.Over {
		fmt.Println("Status: over")
	} else {
		fmt.Println("Status: in progress")
	}
}

func (o *Output) printSoloGuessResult(r SoloGuessResult) {
	fmt.Printf("Guess %s: %d exact, %d value matches\n",
		digitString(r.Guess), r.Feedback.ExactMatches, r.Feedback.ValueMatches)

	if r.Won {
		fmt.Println("You got it!")
	}
	if r.Summary != nil {
		o.printSoloSummary(*r.Summary)
	}
}

func (o *Output) printSoloSummary(s SoloSummary) {
	if s.Won {
		fmt.Printf("Won in %d guesses (%s)\n", s.GuessCount, s.Elapsed.Round(time.Second))
	} else {
		fmt.Printf("Game over after %d guesses (%s)\n", s.GuessCount, s.Elapsed.Round(time.Second))
	}
	if len(s.Secret) > 0 {
		fmt.Printf("The number was %s\n", digitString(s.Secret))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
