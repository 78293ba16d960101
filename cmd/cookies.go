package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pagewrap/internal/cookie"
	"github.com/xkilldash9x/pagewrap/internal/webdriver"
)

// cookieView is the printable form of a cookie. Unset optional fields are omitted.
type cookieView struct {
	Name    string     `json:"name"`
	Value   string     `json:"value"`
	Path    *string    `json:"path,omitempty"`
	Domain  *string    `json:"domain,omitempty"`
	Secure  *bool      `json:"secure,omitempty"`
	Expires *time.Time `json:"expires,omitempty"`
}

func viewOf(c *cookie.Cookie) cookieView {
	v := cookieView{Name: c.Name(), Value: c.Value()}
	if p, ok := c.Path(); ok {
		v.Path = &p
	}
	if d, ok := c.Domain(); ok {
		v.Domain = &d
	}
	if s, ok := c.Secure(); ok {
		v.Secure = &s
	}
	if t, ok := c.ExpiryTime(); ok {
		v.Expires = &t
	}
	return v
}

func newCookiesCmd() *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Reads and writes the cookies visible to a page",
	}
	cmd.PersistentFlags().StringVarP(&pageURL, "url", "u", "", "page to load before touching cookies (required)")
	_ = cmd.MarkPersistentFlagRequired("url")

	// onPage opens a session, loads the page and hands the driver to fn.
	onPage := func(cmd *cobra.Command, fn func(context.Context, *webdriver.Driver) error) error {
		return withSession(cmd, func(d *webdriver.Driver) error {
			ctx := cmd.Context()
			if err := d.Navigate(ctx, pageURL); err != nil {
				return err
			}
			return fn(ctx, d)
		})
	}

	cmd.AddCommand(
		newCookiesListCmd(onPage),
		newCookiesGetCmd(onPage),
		newCookiesSetCmd(onPage),
		newCookiesDeleteCmd(onPage),
		newCookiesClearCmd(onPage),
	)
	return cmd
}

type pageRunner func(*cobra.Command, func(context.Context, *webdriver.Driver) error) error

func newCookiesListCmd(onPage pageRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists every cookie visible to the page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return onPage(cmd, func(ctx context.Context, d *webdriver.Driver) error {
				cookies, err := d.ParsedCookies(ctx)
				if err != nil {
					return err
				}
				views := make([]cookieView, 0, len(cookies))
				for _, c := range cookies {
					views = append(views, viewOf(c))
				}
				return writeJSON(cmd.OutOrStdout(), views)
			})
		},
	}
}

func newCookiesGetCmd(onPage pageRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Prints a single cookie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			return onPage(cmd, func(ctx context.Context, d *webdriver.Driver) error {
				rec, ok, err := d.Cookie(ctx, name)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("cookie %q is not set", name)
				}
				c, err := cookie.FromRecord(rec)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), viewOf(c))
			})
		},
	}
}

func newCookiesSetCmd(onPage pageRunner) *cobra.Command {
	var (
		path   string
		domain string
		secure bool
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Adds a cookie to the page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl < 0 {
				return errors.New("--ttl must not be negative")
			}

			c := cookie.New(args[0]).WithValue(args[1])
			flags := cmd.Flags()
			if flags.Changed("path") {
				c.WithPath(path)
			}
			if flags.Changed("domain") {
				c.WithDomain(domain)
			}
			if flags.Changed("secure") {
				c.WithSecure(secure)
			}
			if ttl > 0 {
				c.WithExpiryTime(time.Now().Add(ttl))
			}

			return onPage(cmd, func(ctx context.Context, d *webdriver.Driver) error {
				return d.AddCookie(ctx, c)
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "cookie path")
	cmd.Flags().StringVar(&domain, "domain", "", "cookie domain")
	cmd.Flags().BoolVar(&secure, "secure", false, "only send the cookie over HTTPS")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "lifetime of the cookie; session cookie when zero")
	return cmd
}

func newCookiesDeleteCmd(onPage pageRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Deletes a cookie by name; deleting an absent cookie is not an error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return onPage(cmd, func(ctx context.Context, d *webdriver.Driver) error {
				return d.DeleteCookie(ctx, args[0])
			})
		},
	}
}

func newCookiesClearCmd(onPage pageRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Deletes every cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return onPage(cmd, func(ctx context.Context, d *webdriver.Driver) error {
				return d.DeleteAllCookies(ctx)
			})
		},
	}
}
