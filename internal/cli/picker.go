package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"

	"mico/internal/api"
)

// VersionPicker asks the user to choose a version of a service. ok is false
// when the user cancelled the dialog.
type VersionPicker interface {
	PickVersion(ctx context.Context, current api.Service, candidates []api.Service) (picked api.Service, ok bool, err error)
}

// HuhVersionPicker shows a select field with the candidates sorted newest
// first, the current version preselected.
type HuhVersionPicker struct {
	In  io.Reader
	Out io.Writer
}

// NewHuhVersionPicker creates a picker reading from in and drawing to out.
func NewHuhVersionPicker(in io.Reader, out io.Writer) *HuhVersionPicker {
	return &HuhVersionPicker{In: in, Out: out}
}

func (p *HuhVersionPicker) PickVersion(ctx context.Context, current api.Service, candidates []api.Service) (api.Service, bool, error) {
	if len(candidates) == 0 {
		return api.Service{}, false, fmt.Errorf("no versions available for %s", current.ShortName)
	}

	sorted := append([]api.Service(nil), candidates...)
	SortServiceVersions(sorted)

	opts := make([]huh.Option[string], 0, len(sorted))
	for _, svc := range sorted {
		label := svc.Version
		if svc.Version == current.Version {
			label += " (current)"
		}
		opts = append(opts, huh.NewOption(label, svc.Version))
	}

	selection := current.Version
	field := huh.NewSelect[string]().
		Title(fmt.Sprintf("Version of %s", current.Title())).
		Options(opts...).
		Value(&selection)

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(p.In).
		WithOutput(p.Out).
		WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return api.Service{}, false, nil
		}
		return api.Service{}, false, err
	}

	for _, svc := range sorted {
		if svc.Version == selection {
			return svc, true, nil
		}
	}
	return api.Service{}, false, fmt.Errorf("unknown version %q", selection)
}

// FixedVersionPicker always picks Version, or cancels when it is empty. It
// backs the non-interactive change-version path.
type FixedVersionPicker struct {
	Version string
}

func (p FixedVersionPicker) PickVersion(_ context.Context, current api.Service, candidates []api.Service) (api.Service, bool, error) {
	if p.Version == "" {
		return api.Service{}, false, nil
	}
	for _, svc := range candidates {
		if svc.Version == p.Version {
			return svc, true, nil
		}
	}
	return api.Service{}, false, fmt.Errorf("%s has no version %s", current.ShortName, p.Version)
}
