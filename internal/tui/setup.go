package tui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/hoverdrag/internal/modifier"
	"github.com/1broseidon/hoverdrag/internal/prefs"
)

// RunSetup asks for both modifier sets, seeded from the store (or from the
// given defaults when the store is empty), and writes them back.
func RunSetup(store prefs.Store, defaultMove, defaultResize modifier.Flags) error {
	if err := requireTTY(); err != nil {
		return err
	}

	move, _ := prefs.ReadFlags(store, prefs.Move)
	resize, _ := prefs.ReadFlags(store, prefs.Resize)
	if move.IsEmpty() && resize.IsEmpty() {
		move, resize = defaultMove, defaultResize
	}

	moveNames := move.Names()
	resizeNames := resize.Names()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("move").
				Title("Move modifiers").
				Description("Hold these and move the pointer to drag the window under it").
				Options(modifierOptions()...).
				Value(&moveNames),
			huh.NewMultiSelect[string]().
				Key("resize").
				Title("Resize modifiers").
				Description("Hold these and move the pointer to resize the window under it").
				Options(modifierOptions()...).
				Value(&resizeNames).
				Validate(func(names []string) error {
					_, _, err := parseSetup(moveNames, names)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		return err
	}

	return applySetup(store, moveNames, resizeNames)
}

func modifierOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(modifier.All))
	for _, m := range modifier.All {
		opts = append(opts, huh.NewOption(m.Title(), m.Name()))
	}
	return opts
}

func parseSetup(move, resize []string) (modifier.Flags, modifier.Flags, error) {
	m, err := modifier.ParseList(move)
	if err != nil {
		return 0, 0, err
	}
	r, err := modifier.ParseList(resize)
	if err != nil {
		return 0, 0, err
	}
	if !m.IsEmpty() && m == r {
		return 0, 0, fmt.Errorf("move and resize modifiers must differ")
	}
	return m, r, nil
}

// applySetup writes both sets. Empty sets are allowed and leave that
// gesture off.
func applySetup(store prefs.Store, move, resize []string) error {
	m, r, err := parseSetup(move, resize)
	if err != nil {
		return err
	}
	if err := prefs.WriteFlags(store, prefs.Move, m); err != nil {
		return fmt.Errorf("save move modifiers: %w", err)
	}
	if err := prefs.WriteFlags(store, prefs.Resize, r); err != nil {
		return fmt.Errorf("save resize modifiers: %w", err)
	}
	return nil
}
