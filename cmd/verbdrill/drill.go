package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/japaniel/verbdrill/pkg/practice"
	"github.com/japaniel/verbdrill/pkg/verbs"
)

const drillHelp = `Commands:
  :q                          quit
  :skip                       next prompt without answering
  :toggle person <name>       e.g. :toggle person vosaltres
  :toggle tense <name>        e.g. :toggle tense imperative
  :toggle regular|irregular
  :rank <limit>               0, 25, 50, 100 or 200
  :help                       this text`

func newDrillCmd(a *app) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Interactive conjugation practice on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.loadDataset(ff.dataset)
			if err != nil {
				return err
			}
			f, err := ff.filters()
			if err != nil {
				return err
			}
			s, err := practice.NewSession(ds, f, ff.rng())
			if err != nil {
				return err
			}
			return runDrill(s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	ff.register(cmd)
	return cmd
}

type score struct {
	asked, correct, exact int
}

func runDrill(s *practice.Session, in io.Reader, out io.Writer) error {
	var sc score
	if _, err := s.Next(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		cur, _ := s.Current()
		fmt.Fprintf(out, "%s\n> ", formatPrompt(cur))
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, ":") {
			quit, err := drillCommand(s, line, out)
			if err != nil {
				fmt.Fprintf(out, "! %v\n", err)
			}
			if quit {
				break
			}
			continue
		}

		g, err := s.Answer(line)
		if err != nil {
			return err
		}
		sc.asked++
		switch {
		case g.Exact:
			sc.correct++
			sc.exact++
			fmt.Fprintln(out, "correct")
		case g.Correct:
			sc.correct++
			fmt.Fprintf(out, "correct, but mind the accents: %s\n", g.Expected)
		default:
			fmt.Fprintf(out, "wrong: %s\n", g.Expected)
		}
		if err := nextPrompt(s, out); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScore: %d/%d correct (%d with accents)\n", sc.correct, sc.asked, sc.exact)
	return nil
}

// nextPrompt advances; a lone remaining prompt is simply asked again.
func nextPrompt(s *practice.Session, out io.Writer) error {
	if _, err := s.Next(); err != nil {
		if errors.Is(err, practice.ErrConfigurationExhausted) {
			fmt.Fprintln(out, "(only one prompt left for these filters)")
			return nil
		}
		return err
	}
	return nil
}

func drillCommand(s *practice.Session, line string, out io.Writer) (quit bool, err error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":q", ":quit":
		return true, nil
	case ":help":
		fmt.Fprintln(out, drillHelp)
		return false, nil
	case ":skip":
		return false, nextPrompt(s, out)
	case ":rank":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: :rank <limit>")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, fmt.Errorf("rank limit: %w", err)
		}
		return false, s.SetRankLimit(n)
	case ":toggle":
		return false, toggle(s, fields[1:])
	}
	return false, fmt.Errorf("unknown command %s (try :help)", fields[0])
}

func toggle(s *practice.Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: :toggle person|tense|regular|irregular [name]")
	}
	switch args[0] {
	case "regular":
		return s.ToggleRegular()
	case "irregular":
		return s.ToggleIrregular()
	case "person":
		if len(args) != 2 {
			return fmt.Errorf("usage: :toggle person <name>")
		}
		p, ok := verbs.ParsePerson(args[1])
		if !ok {
			return fmt.Errorf("unknown person %q", args[1])
		}
		return s.TogglePerson(p)
	case "tense":
		if len(args) != 2 {
			return fmt.Errorf("usage: :toggle tense <name>")
		}
		t, ok := verbs.ParseTense(args[1])
		if !ok {
			return fmt.Errorf("unknown tense %q", args[1])
		}
		return s.ToggleTense(t)
	}
	return fmt.Errorf("cannot toggle %q", args[0])
}
