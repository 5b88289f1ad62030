// relattack_demo scores candidate prompts against a few-shot classification
// split, using the same reward the prompt search optimizes.
//
// It also uses github.com/charmbracelet libraries to make for a pretty command-line UI.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gomlx/exceptions"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags]\n\nScores candidate prompts interactively: type a prompt, Ctrl+D to score it.\n\n",
			os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var p *tea.Program
	err := exceptions.TryCatch[error](func() { p = tea.NewProgram(newUIModel()) })
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up the prompt-scoring demo: %+v\n", err)
		os.Exit(1)
	}
	_, err = p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "The prompt-scoring UI exited with an error: %+v\n", err)
		os.Exit(1)
	}
}
