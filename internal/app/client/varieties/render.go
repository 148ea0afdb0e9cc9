package varieties

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"grapetracker/internal/domain/variety"
)

var badgeColors = map[string]color.Attribute{
	"red":    color.FgRed,
	"yellow": color.FgYellow,
	"purple": color.FgMagenta,
}

// Render writes the dashboard list to w.
func (v *View) Render(w io.Writer) error {
	if v.Loading() {
		_, err := fmt.Fprintln(w, MsgLoading)
		return err
	}

	items := v.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, MsgEmpty)
		return err
	}

	for i, it := range items {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := v.renderItem(w, it); err != nil {
			return err
		}
	}
	return nil
}

func (v *View) renderItem(w io.Writer, it variety.Variety) error {
	bold := color.New(color.Bold)
	badge := color.New(badgeColors[it.Color.Badge()])

	owner := ""
	if it.CanDelete(v.user) {
		owner = " " + color.New(color.FgGreen).Sprint("(yours)")
	} else if it.Grower != nil && it.Grower.Name != "" {
		owner = " by " + it.Grower.Name
	}

	if _, err := fmt.Fprintf(w, "#%d %s [%s]%s\n", it.ID, bold.Sprint(it.Name), badge.Sprint(it.Color), owner); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "    photo:  %s\n", it.ThumbnailURL()); err != nil {
		return err
	}
	if it.Origin != "" {
		if _, err := fmt.Fprintf(w, "    origin: %s\n", it.Origin); err != nil {
			return err
		}
	}
	if it.Notes != "" {
		if _, err := fmt.Fprintf(w, "    notes:  %s\n", it.Notes); err != nil {
			return err
		}
	}
	return nil
}
