package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
)

func (c *cli) scrapeCmd() *cobra.Command {
	var (
		profile    string
		posts      int
		save, scan bool
	)
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a public profile, or every tracked competitor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if posts <= 0 {
				posts = c.cfg.Instagram.MaxPosts
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}

			if scan {
				summary, err := a.Scraper.ScanAll(cmd.Context(), posts)
				if err != nil {
					return err
				}
				if c.pretty {
					c.printScan(summary)
					return nil
				}
				return c.print(summary)
			}

			if profile == "" {
				return errors.New("provide --profile HANDLE or --scan")
			}
			data := a.Scraper.ScrapeProfile(cmd.Context(), profile, posts)
			if save {
				result := a.Scraper.SaveToDB(cmd.Context(), profile, data)
				if c.pretty {
					c.printSave(result)
					return nil
				}
				return c.print(result)
			}
			if c.pretty {
				c.printProfile(data)
				return nil
			}
			return c.print(data)
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "Handle to scrape")
	cmd.Flags().IntVar(&posts, "posts", 0, "Maximum recent posts to read")
	cmd.Flags().BoolVar(&save, "save", false, "Store the snapshot and new posts")
	cmd.Flags().BoolVar(&scan, "scan", false, "Scrape and save every tracked competitor")
	cmd.MarkFlagsMutuallyExclusive("profile", "scan")
	return cmd
}

func (c *cli) printProfile(data domain.ScrapeResult) {
	if data.Error != "" {
		fmt.Fprintf(c.out, "Error: %s\n", data.Error)
		return
	}
	fmt.Fprintf(c.out, "@%s (%s)\n", data.Handle, data.FullName)
	fmt.Fprintf(c.out, "  Followers: %s  Following: %s  Posts: %s\n", counter(data.Followers), counter(data.Following), counter(data.TotalPosts))
	if data.IsPrivate {
		fmt.Fprintln(c.out, "  Private account")
	}
	if data.ScrapeWarning != "" {
		fmt.Fprintf(c.out, "  Warning: %s\n", data.ScrapeWarning)
	}
	for _, p := range data.Posts {
		fmt.Fprintf(c.out, "  %s  %-8s %5d likes %4d comments  %s\n",
			p.PostedAt.Format("2006-01-02"), p.ContentType, p.Likes, p.Comments, p.PostURL)
	}
}

func (c *cli) printSave(r domain.SaveResult) {
	if r.Error != "" {
		fmt.Fprintf(c.out, "@%s: %s\n", r.Handle, r.Error)
		return
	}
	fmt.Fprintf(c.out, "@%s: %s followers, %d posts scraped, %d new, %d duplicates\n",
		r.Handle, counter(r.Followers), r.PostsScraped, r.PostsAdded, r.PostsSkippedDuplicates)
}

func (c *cli) printScan(s domain.ScanSummary) {
	for _, r := range s.Results {
		c.printSave(r)
	}
	fmt.Fprintf(c.out, "Scanned %d competitors, %d new posts\n", s.CompetitorsScanned, s.TotalAdded())
}

func counter(n *int64) string {
	if n == nil {
		return "?"
	}
	return strconv.FormatInt(*n, 10)
}
