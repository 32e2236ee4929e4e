// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/annoload/annoload/internal/archive"
	"github.com/annoload/annoload/internal/host"
)

// classifyParams holds the inputs of `annoload classify`. Source is an
// archive path, or "-" to read one entry name per line from stdin.
type classifyParams struct {
	Source string
}

// newClassifyCommand creates the `annoload classify` command.
func newClassifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <archive|->",
		Short: "Show which installer accepts an archive",
		Long: `Ask the registered installers, in priority order, whether they accept
an archive and print the instructions the accepting one would produce.

Pass "-" to read entry names from stdin instead of opening an archive.
Nothing is written and the game does not have to be discovered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context())
			if err != nil {
				return err
			}
			return runClassify(cmd.Context(), app, s, classifyParams{Source: args[0]})
		},
	}
}

func runClassify(ctx context.Context, app *App, s *session, params classifyParams) error {
	files, err := classifyInput(app.stdin, params.Source)
	if err != nil {
		return err
	}

	in, err := s.host.Classify(ctx, s.game.ID, files)
	if err != nil {
		return classifyHostError(err, operation("classify archive", params.Source))
	}
	instructions, err := in.Install(ctx, files)
	if err != nil {
		return fmt.Errorf("installer %s: %w", in.Name, err)
	}

	fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render("Installer:"), in.Name)
	printInstructions(app, instructions)
	return nil
}

func classifyInput(stdin io.Reader, source string) ([]string, error) {
	if source != "-" {
		return archive.List(source)
	}

	files := []string{}
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entry names: %w", err)
	}
	return files, nil
}

func printInstructions(app *App, instructions []host.Instruction) {
	for _, inst := range instructions {
		switch inst.Type {
		case host.InstructionCopy:
			fmt.Fprintf(app.stdout, "  copy %s -> %s\n", inst.Source, inst.Destination)
		case host.InstructionSetModType:
			fmt.Fprintf(app.stdout, "  set mod type %s\n", CmdStyle.Render(inst.Value))
		default:
			fmt.Fprintf(app.stdout, "  %s\n", inst.Type)
		}
	}
}
