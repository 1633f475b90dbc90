package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"Wavecrest/internal/domain"
)

func (c *cli) competitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "competitors",
		Aliases: []string{"intel"},
		Short:   "Track competitors and log observations",
	}
	cmd.AddCommand(
		c.competitorsListCmd(),
		c.competitorsAddCmd(),
		c.competitorsRemoveCmd(),
		c.competitorsDemoCmd(),
		c.competitorsSummaryCmd(),
		c.competitorsLogPostCmd(),
		c.competitorsLogSnapshotCmd(),
	)
	return cmd
}

func (c *cli) competitorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked competitors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			competitors, err := a.Intel.List(cmd.Context())
			if err != nil {
				return err
			}
			if !c.pretty {
				return c.print(competitors)
			}
			if len(competitors) == 0 {
				fmt.Fprintln(c.out, "No competitors tracked yet.")
				return nil
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tHANDLE\tPLATFORM")
			for _, comp := range competitors {
				fmt.Fprintf(tw, "%d\t%s\t@%s\t%s\n", comp.ID, comp.Name, comp.Handle, comp.Platform)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) competitorsAddCmd() *cobra.Command {
	var handle, platform, profileURL, notes string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Start tracking a competitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			added, err := a.Intel.Add(cmd.Context(), domain.Competitor{
				Name:       args[0],
				Handle:     handle,
				Platform:   domain.Platform(platform),
				ProfileURL: optionalFlag(profileURL),
				Notes:      optionalFlag(notes),
			})
			if err != nil {
				return err
			}
			if c.pretty {
				fmt.Fprintf(c.out, "Added %s (@%s) with id %d\n", added.Name, added.Handle, added.ID)
				return nil
			}
			return c.print(added)
		},
	}
	cmd.Flags().StringVar(&handle, "handle", "", "Social handle, with or without @")
	cmd.Flags().StringVar(&platform, "platform", string(domain.PlatformInstagram), "instagram, facebook or both")
	cmd.Flags().StringVar(&profileURL, "url", "", "Profile URL")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("handle")
	return cmd
}

func (c *cli) competitorsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Stop tracking a competitor and drop its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			removed, err := a.Intel.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("competitor %d: %w", id, domain.ErrNotFound)
			}
			return c.print(map[string]any{"success": true, "removed": id})
		},
	}
}

func (c *cli) competitorsDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Load demo competitors, posts and snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			result, err := a.Intel.LoadDemoData(cmd.Context())
			if err != nil {
				return err
			}
			if c.pretty {
				fmt.Fprintln(c.out, result.Message)
				return nil
			}
			return c.print(result)
		},
	}
}

func (c *cli) competitorsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count tracked competitors and recent posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			summary, err := a.Intel.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if c.pretty {
				fmt.Fprintf(c.out, "Competitors tracked: %d\nTotal posts logged:  %d\nPosts last 7 days:   %d\n",
					summary.CompetitorsTracked, summary.TotalPosts, summary.RecentPosts7d)
				return nil
			}
			return c.print(summary)
		},
	}
}

func (c *cli) competitorsLogPostCmd() *cobra.Command {
	var (
		postURL, postedAt, contentType, caption, theme, notes string
		likes, comments                                       int64
		notable                                               bool
	)
	cmd := &cobra.Command{
		Use:   "log-post HANDLE",
		Short: "Record a post observed on a competitor account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			competitor, err := a.Store.CompetitorByHandle(cmd.Context(), trimHandle(args[0]))
			if err != nil {
				return fmt.Errorf("competitor @%s: %w", trimHandle(args[0]), err)
			}
			id, err := a.Intel.LogPost(cmd.Context(), domain.CompetitorPost{
				CompetitorID:   competitor.ID,
				PostURL:        optionalFlag(postURL),
				PostedAt:       optionalFlag(postedAt),
				ContentType:    domain.ContentType(contentType),
				CaptionSnippet: optionalFlag(caption),
				Likes:          likes,
				Comments:       comments,
				ContentTheme:   optionalFlag(theme),
				Notes:          optionalFlag(notes),
				IsNotable:      notable,
			})
			if err != nil {
				return err
			}
			return c.print(map[string]any{"success": true, "id": id})
		},
	}
	cmd.Flags().StringVar(&postURL, "url", "", "Post URL")
	cmd.Flags().StringVar(&postedAt, "posted-at", "", "RFC 3339 timestamp, default now")
	cmd.Flags().StringVar(&contentType, "type", string(domain.ContentImage), "image, carousel, reel, video or story")
	cmd.Flags().StringVar(&caption, "caption", "", "Caption snippet")
	cmd.Flags().StringVar(&theme, "theme", "", "Content theme")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().Int64Var(&likes, "likes", 0, "Like count")
	cmd.Flags().Int64Var(&comments, "comments", 0, "Comment count")
	cmd.Flags().BoolVar(&notable, "notable", false, "Flag the post as notable")
	return cmd
}

func (c *cli) competitorsLogSnapshotCmd() *cobra.Command {
	var (
		date, bio                   string
		followers, following, posts int64
	)
	cmd := &cobra.Command{
		Use:   "log-snapshot HANDLE",
		Short: "Record account metrics for a competitor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			competitor, err := a.Store.CompetitorByHandle(cmd.Context(), trimHandle(args[0]))
			if err != nil {
				return fmt.Errorf("competitor @%s: %w", trimHandle(args[0]), err)
			}
			snap := domain.CompetitorSnapshot{
				CompetitorID: competitor.ID,
				SnapshotDate: date,
				Bio:          optionalFlag(bio),
			}
			if cmd.Flags().Changed("followers") {
				snap.Followers = &followers
			}
			if cmd.Flags().Changed("following") {
				snap.Following = &following
			}
			if cmd.Flags().Changed("posts") {
				snap.TotalPosts = &posts
			}
			id, err := a.Intel.LogSnapshot(cmd.Context(), snap)
			if err != nil {
				return err
			}
			return c.print(map[string]any{"success": true, "id": id})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Snapshot date YYYY-MM-DD, default today")
	cmd.Flags().StringVar(&bio, "bio", "", "Profile bio")
	cmd.Flags().Int64Var(&followers, "followers", 0, "Follower count")
	cmd.Flags().Int64Var(&following, "following", 0, "Following count")
	cmd.Flags().Int64Var(&posts, "posts", 0, "Total post count")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
