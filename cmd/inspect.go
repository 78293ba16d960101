package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pagewrap/internal/dom"
	"github.com/xkilldash9x/pagewrap/internal/webdriver"
)

// elementSummary is the printable view of a wrapped element.
type elementSummary struct {
	Kind    string            `json:"kind"`
	Tag     string            `json:"tag"`
	Classes []string          `json:"classes"`
	Text    string            `json:"text,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func newInspectCmd() *cobra.Command {
	var (
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect URL SELECTOR",
		Short: "Loads a page and describes the elements matching a CSS selector",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, selector := args[0], args[1]
			return withSession(cmd, func(d *webdriver.Driver) error {
				ctx := cmd.Context()
				if err := d.Navigate(ctx, url); err != nil {
					return err
				}

				var nodes []dom.Node
				if all {
					found, err := d.FindElements(ctx, selector)
					if err != nil {
						return err
					}
					nodes = found
				} else {
					n, err := d.FindElement(ctx, selector)
					if err != nil {
						return err
					}
					nodes = []dom.Node{n}
				}

				summaries := make([]elementSummary, 0, len(nodes))
				for i, n := range nodes {
					s, err := summarize(ctx, n)
					if err != nil {
						return fmt.Errorf("element %d: %w", i, err)
					}
					summaries = append(summaries, s)
				}
				return printSummaries(cmd.OutOrStdout(), summaries, asJSON)
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "describe every match instead of the first")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

// summarize reads the generic properties of n plus the ones its variant exposes.
func summarize(ctx context.Context, n dom.Node) (elementSummary, error) {
	base := n.Base()
	tag, err := base.TagName(ctx)
	if err != nil {
		return elementSummary{}, err
	}
	classes, err := base.Classes(ctx)
	if err != nil {
		return elementSummary{}, err
	}
	text, err := base.Text(ctx)
	if err != nil {
		return elementSummary{}, err
	}

	details, err := variantDetails(ctx, n)
	if err != nil {
		return elementSummary{}, err
	}
	return elementSummary{
		Kind:    n.Kind().String(),
		Tag:     tag,
		Classes: classes,
		Text:    strings.TrimSpace(text),
		Details: details,
	}, nil
}

func variantDetails(ctx context.Context, n dom.Node) (map[string]string, error) {
	d := make(map[string]string)
	var err error

	switch v := n.(type) {
	case *dom.TextInput:
		d["value"], err = v.Value(ctx)
	case *dom.NumberInput:
		d["value"], err = v.Value(ctx)
	case *dom.Input:
		d["value"], err = v.Value(ctx)
	case *dom.CheckBox:
		var checked bool
		checked, err = v.IsChecked(ctx)
		d["checked"] = fmt.Sprint(checked)
	case *dom.RadioButton:
		var selected bool
		selected, err = v.IsSelected(ctx)
		d["selected"] = fmt.Sprint(selected)
	case *dom.Button:
		d["type"], err = v.Type(ctx)
	case *dom.TextArea:
		err = textAreaDetails(ctx, v, d)
	case *dom.Anchor:
		if d["href"], err = v.Href(ctx); err == nil {
			d["target"], err = v.Target(ctx)
		}
	case *dom.Img:
		if d["src"], err = v.Src(ctx); err == nil {
			d["alt"], err = v.Alt(ctx)
		}
	case *dom.Ul:
		err = listDetails(ctx, v.Items, d)
	case *dom.Ol:
		err = listDetails(ctx, v.Items, d)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func textAreaDetails(ctx context.Context, t *dom.TextArea, d map[string]string) error {
	rows, ok, err := t.Rows(ctx)
	if err != nil {
		return err
	}
	if ok {
		d["rows"] = fmt.Sprint(rows)
	}
	cols, ok, err := t.Cols(ctx)
	if err != nil {
		return err
	}
	if ok {
		d["cols"] = fmt.Sprint(cols)
	}
	return nil
}

func listDetails(ctx context.Context, items func(context.Context) ([]dom.Node, error), d map[string]string) error {
	found, err := items(ctx)
	if err != nil {
		return err
	}
	d["items"] = fmt.Sprint(len(found))
	return nil
}

func printSummaries(w io.Writer, summaries []elementSummary, asJSON bool) error {
	if asJSON {
		return writeJSON(w, summaries)
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%s <%s>", s.Kind, s.Tag)
		if len(s.Classes) > 0 {
			fmt.Fprintf(w, " class=%q", strings.Join(s.Classes, " "))
		}
		for _, k := range sortedKeys(s.Details) {
			fmt.Fprintf(w, " %s=%q", k, s.Details[k])
		}
		if s.Text != "" {
			fmt.Fprintf(w, " text=%q", s.Text)
		}
		fmt.Fprintln(w)
	}
	return nil
}
