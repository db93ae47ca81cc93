package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hoist/hoist/internal/binary"
	"github.com/hoist/hoist/internal/engine"
)

var hoistAll bool

// runHoist copies the requested binaries into the current directory. The
// engine only plans; ambiguity and empty requests are resolved here, the
// interactive layer, and fed back as an explicit selection.
func runHoist(cmd *cobra.Command, names []string) error {
	eng := newEngine()
	defer eng.Close()

	plan, err := eng.PlanHoist(names)
	if err != nil {
		return err
	}

	selected := plan.Resolved
	if plan.NeedsSelection {
		if len(plan.Candidates) == 0 {
			return errors.New("no binaries registered; run \"hoist install\" in a project first")
		}
		if hoistAll {
			selected = plan.Candidates
		} else {
			picked, err := selectBinaries("Which binaries would you like to hoist?", plan.Candidates)
			if err != nil {
				return err
			}
			selected = picked
		}
	}

	if plan.HasConflicts() {
		resolved, err := resolveConflicts(plan)
		if err != nil {
			return err
		}
		selected = append(selected, resolved...)
	}

	return eng.Copy(selected)
}

// resolveConflicts handles names matched by more than one registered
// binary. With --all every match is taken; interactively the user picks;
// otherwise the conflict set is surfaced as an error.
func resolveConflicts(plan *engine.Plan) ([]binary.Binary, error) {
	names := make([]string, 0, len(plan.Conflicts))
	for name := range plan.Conflicts {
		names = append(names, name)
	}
	sort.Strings(names)

	if hoistAll {
		var all []binary.Binary
		for _, name := range names {
			all = append(all, plan.Conflicts[name]...)
		}
		return all, nil
	}

	if !stdinIsTTY() {
		var b strings.Builder
		fmt.Fprintf(&b, "%d name(s) match multiple registered binaries:\n", len(names))
		for _, name := range names {
			for _, c := range plan.Conflicts[name] {
				fmt.Fprintf(&b, "  %s (%s)\n", c.Name, c.Location)
			}
		}
		b.WriteString("re-run interactively or use --all")
		return nil, errors.New(b.String())
	}

	var resolved []binary.Binary
	for _, name := range names {
		picked, err := selectBinaries(fmt.Sprintf("Multiple binaries named %q; select which to hoist:", name), plan.Conflicts[name])
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, picked...)
	}
	return resolved, nil
}

// selectBinaries prompts with a numbered list and reads a comma-separated
// selection. Refuses to prompt on non-interactive stdin.
func selectBinaries(prompt string, candidates []binary.Binary) ([]binary.Binary, error) {
	if !stdinIsTTY() {
		return nil, errors.New("refusing to prompt on non-interactive stdin; pass binary names or use --all")
	}
	fmt.Println(prompt)
	for i, c := range candidates {
		fmt.Printf("  [%d] %s (%s)\n", i+1, c.Name, c.Location)
	}
	fmt.Print("Selection (e.g. 1,3): ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read selection: %w", err)
	}

	var picked []binary.Binary
	for _, field := range strings.Split(strings.TrimSpace(line), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		idx, err := strconv.Atoi(field)
		if err != nil || idx < 1 || idx > len(candidates) {
			return nil, fmt.Errorf("invalid selection: %q", field)
		}
		picked = append(picked, candidates[idx-1])
	}
	if len(picked) == 0 {
		return nil, errors.New("nothing selected")
	}
	return picked, nil
}

func stdinIsTTY() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
