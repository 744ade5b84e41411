package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var stdinReader = bufio.NewReader(os.Stdin)

// PromptChoice shows question followed by the allowed single-character
// choices, and returns the chosen rune. Entering "c" or an empty line
// cancels (ok=false), modelling the engine's "early negative answer"
// cancellation: the engine has no cancellation tokens, only a
// collaborator prompt that may decline.
func PromptChoice(question string, choices string) (choice rune, ok bool) {
	fmt.Fprintf(os.Stdout, "%s [%s/c to cancel]: ", question, choices)
	line, _ := stdinReader.ReadString('\n')
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" || line == "c" {
		return 0, false
	}
	for _, c := range choices {
		if rune(line[0]) == c {
			return c, true
		}
	}
	return 0, false
}

// PromptNumber reads a bounded integer in [min, max] from stdin,
// re-prompting on invalid input, and returns ok=false if the operator
// cancels with an empty line.
func PromptNumber(question string, min, max int) (value int, ok bool) {
	for {
		fmt.Fprintf(os.Stdout, "%s (%d-%d, blank to cancel): ", question, min, max)
		line, _ := stdinReader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < min || n > max {
			fmt.Fprintf(os.Stderr, "enter a number between %d and %d\n", min, max)
			continue
		}
		return n, true
	}
}

// Progress reports a fraction in [0.0, 1.0] to the operator.
func Progress(fraction float64) {
	fmt.Fprintf(os.Stderr, "\rprogress: %3.0f%%", fraction*100)
	if fraction >= 1.0 {
		fmt.Fprintln(os.Stderr)
	}
}

// PromptLine reads one free-form line of text (used for descriptions
// and tokens), trimmed of surrounding whitespace.
func PromptLine(question string) string {
	fmt.Fprintf(os.Stdout, "%s: ", question)
	line, _ := stdinReader.ReadString('\n')
	return strings.TrimSpace(line)
}
