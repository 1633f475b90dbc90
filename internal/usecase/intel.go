package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

// Intel is the manual competitive intelligence tooling: tracking
// competitors, logging observations and summarizing activity.
type Intel struct {
	repo   ports.CompetitorRepository
	logger *slog.Logger
	now    func() time.Time
	rnd    *rand.Rand
}

// NewIntel constructs the use case with a time-seeded random source.
func NewIntel(repo ports.CompetitorRepository, logger *slog.Logger) *Intel {
	if logger == nil {
		logger = slog.Default()
	}
	seed := uint64(time.Now().UnixNano())
	return &Intel{
		repo:   repo,
		logger: logger.With("component", "intel"),
		now:    time.Now,
		rnd:    rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// WithRand replaces the clock and random source, for reproducible demo data.
func (i *Intel) WithRand(now func() time.Time, rnd *rand.Rand) *Intel {
	i.now = now
	i.rnd = rnd
	return i
}

// List returns tracked competitors by name.
func (i *Intel) List(ctx context.Context) ([]domain.Competitor, error) {
	competitors, err := i.repo.ListCompetitors(ctx)
	if err != nil {
		return nil, err
	}
	if competitors == nil {
		competitors = []domain.Competitor{}
	}
	return competitors, nil
}

// Add starts tracking a competitor.
func (i *Intel) Add(ctx context.Context, c domain.Competitor) (domain.Competitor, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Handle = normalizeHandle(c.Handle)
	if c.Name == "" || c.Handle == "" {
		return domain.Competitor{}, fmt.Errorf("competitor name and handle are required")
	}
	if c.Platform == "" {
		c.Platform = domain.PlatformInstagram
	}
	if !c.Platform.Valid() {
		return domain.Competitor{}, fmt.Errorf("unknown platform %q", c.Platform)
	}
	return i.repo.AddCompetitor(ctx, c)
}

// Remove stops tracking a competitor, dropping its snapshots and posts.
func (i *Intel) Remove(ctx context.Context, id int64) (bool, error) {
	return i.repo.RemoveCompetitor(ctx, id)
}

// LogPost records a manually observed post; a nil PostedAt means now.
func (i *Intel) LogPost(ctx context.Context, post domain.CompetitorPost) (int64, error) {
	if post.PostedAt == nil {
		ts := i.now().Format(time.RFC3339)
		post.PostedAt = &ts
	}
	if post.ContentType == "" {
		post.ContentType = domain.ContentImage
	}
	return i.repo.InsertPost(ctx, post)
}

// LogSnapshot records account metrics; an empty date means today. A second
// snapshot for the same day is rejected.
func (i *Intel) LogSnapshot(ctx context.Context, snap domain.CompetitorSnapshot) (int64, error) {
	if snap.SnapshotDate == "" {
		snap.SnapshotDate = i.now().Format(time.DateOnly)
	}
	return i.repo.InsertSnapshot(ctx, snap)
}

// Summary counts tracked competitors, stored posts and posts of the last
// seven days.
type Summary struct {
	CompetitorsTracked int   `json:"competitors_tracked"`
	TotalPosts         int64 `json:"total_posts"`
	RecentPosts7d      int64 `json:"recent_posts_7d"`
}

// Summary reports activity totals.
func (i *Intel) Summary(ctx context.Context) (Summary, error) {
	competitors, err := i.repo.ListCompetitors(ctx)
	if err != nil {
		return Summary{}, err
	}
	total, err := i.repo.CountPosts(ctx, "")
	if err != nil {
		return Summary{}, err
	}
	since := i.now().AddDate(0, 0, -7).Format(time.DateOnly)
	recent, err := i.repo.CountPosts(ctx, since)
	if err != nil {
		return Summary{}, err
	}
	return Summary{CompetitorsTracked: len(competitors), TotalPosts: total, RecentPosts7d: recent}, nil
}

// DemoResult reports what LoadDemoData wrote.
type DemoResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Posts     int    `json:"-"`
	Snapshots int    `json:"-"`
}

var demoCompetitors = []domain.Competitor{
	{Name: "Charlie Health", Handle: "charliehealth",
		Notes: ptrTo("Virtual mental health treatment for teens and young adults. Major national brand.")},
	{Name: "Novara Recovery Center", Handle: "novararecoverycenter",
		Notes: ptrTo("Local SoCal recovery center. Direct competitor in the behavioral health space.")},
	{Name: "Heading Health", Handle: "headinghealth",
		Notes: ptrTo("Mental health treatment center. Strong social media presence with educational content.")},
	{Name: "Innerwell", Handle: "innerwell",
		Notes: ptrTo("Virtual mental health platform. Clean, modern branding.")},
}

var demoCaptions = []string{
	"Recovery isn't linear, and that's okay. Every step forward counts.",
	"Meet our team! Our therapists bring decades of combined experience.",
	"5 signs you might benefit from an IOP program (swipe to learn more)",
	"Client spotlight: 'Finding Wavecrest changed my life' - testimonial",
	"Mental health tip: grounding techniques for anxiety (save this!)",
	"We're proud to serve the SoCal community. Here's what makes us different.",
	"New blog post: Understanding the difference between IOP and PHP",
	"Behind the scenes at our facility - take a virtual tour!",
	"Self-care Sunday: 3 mindfulness exercises you can do right now",
	"Celebrating our team's dedication to client-centered care",
	"Did you know? Virtual IOP can be just as effective as in-person.",
	"Breaking the stigma: why asking for help is a sign of strength",
	"Our holistic approach includes yoga, meditation, and evidence-based therapy",
	"Happy holidays from our family to yours. You're not alone.",
	"FAQ: What to expect during your first week in our program",
}

var demoThemes = []string{
	"education", "community", "client_stories", "treatment_info",
	"affirming_messages", "team_spotlight", "tips", "awareness",
}

// LoadDemoData ensures the four default competitors exist and fills them
// with a month of plausible posts and weekly snapshots. Snapshot dates that
// already exist are skipped.
func (i *Intel) LoadDemoData(ctx context.Context) (DemoResult, error) {
	existing, err := i.repo.ListCompetitors(ctx)
	if err != nil {
		return DemoResult{}, err
	}
	byName := make(map[string]int64, len(existing))
	for _, c := range existing {
		byName[c.Name] = c.ID
	}

	ids := make([]int64, 0, len(demoCompetitors))
	for _, c := range demoCompetitors {
		if id, ok := byName[c.Name]; ok {
			ids = append(ids, id)
			continue
		}
		c.Platform = domain.PlatformInstagram
		c.ProfileURL = ptrTo("https://www.instagram.com/" + c.Handle + "/")
		added, err := i.repo.AddCompetitor(ctx, c)
		if err != nil {
			return DemoResult{}, fmt.Errorf("add %s: %w", c.Name, err)
		}
		ids = append(ids, added.ID)
	}

	result := DemoResult{Success: true}
	end := i.now()
	for _, id := range ids {
		n := i.between(6, 12)
		for range n {
			posted := end.AddDate(0, 0, -i.between(0, 30)).Format(time.RFC3339)
			likes := int64(i.between(15, 800))
			comments := int64(i.between(0, int(float64(likes)*0.15)))
			followers := int64(i.between(2000, 50000))
			rate := math.Round(float64(likes+comments)/float64(followers)*10000) / 10000

			_, err := i.repo.InsertPost(ctx, domain.CompetitorPost{
				CompetitorID:            id,
				PostedAt:                &posted,
				ContentType:             domain.ContentTypes[i.rnd.IntN(len(domain.ContentTypes))],
				CaptionSnippet:          ptrTo(demoCaptions[i.rnd.IntN(len(demoCaptions))]),
				Likes:                   likes,
				Comments:                comments,
				EstimatedEngagementRate: &rate,
				ContentTheme:            ptrTo(demoThemes[i.rnd.IntN(len(demoThemes))]),
			})
			if err != nil {
				return result, fmt.Errorf("demo post: %w", err)
			}
			result.Posts++
		}

		for weeksAgo := range 4 {
			date := end.AddDate(0, 0, -7*weeksAgo).Format(time.DateOnly)
			base := int64(i.between(2000, 45000))
			growth := int64(weeksAgo * i.between(-50, 200))
			followers := base - growth
			following := int64(i.between(200, 1500))
			total := int64(i.between(100, 800))

			_, err := i.repo.InsertSnapshot(ctx, domain.CompetitorSnapshot{
				CompetitorID: id,
				SnapshotDate: date,
				Followers:    &followers,
				Following:    &following,
				TotalPosts:   &total,
			})
			if err != nil {
				i.logger.Debug("demo snapshot skipped", "competitor", id, "date", date, "error", err)
				continue
			}
			result.Snapshots++
		}
	}

	result.Message = fmt.Sprintf("Loaded %d competitors, %d posts, %d snapshots", len(ids), result.Posts, result.Snapshots)
	return result, nil
}

// between returns a uniform integer in [lo, hi].
func (i *Intel) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + i.rnd.IntN(hi-lo+1)
}

func ptrTo[T any](v T) *T { return &v }
