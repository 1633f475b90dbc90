package instagram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Wavecrest/internal/domain"
)

// og:description reads like "1,234 Followers, 56 Following, 789 Posts - See
// Instagram photos and videos from Name (@handle)".
var (
	countExpr = regexp.MustCompile(`(?i)([\d.,]+\s*[KMB]?)\s+(Followers|Following|Posts)`)
	nameExpr  = regexp.MustCompile(`from (.+?) \(@`)
)

func (s *Scanner) profilePage(ctx context.Context, handle string) (domain.Profile, error) {
	resp, err := s.do(ctx, s.baseURL+"/"+handle+"/", "text/html")
	if err != nil {
		return domain.Profile{}, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return domain.Profile{}, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("parse profile page: %w", err)
	}
	return parseProfilePage(doc, handle)
}

func parseProfilePage(doc *goquery.Document, handle string) (domain.Profile, error) {
	desc, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content")
	if !ok || strings.TrimSpace(desc) == "" {
		return domain.Profile{}, fmt.Errorf("profile page for @%s has no description", handle)
	}

	profile := domain.Profile{Handle: handle}
	matched := false
	for _, m := range countExpr.FindAllStringSubmatch(desc, -1) {
		n, err := parseCount(m[1])
		if err != nil {
			continue
		}
		matched = true
		switch strings.ToLower(m[2]) {
		case "followers":
			profile.Followers = &n
		case "following":
			profile.Following = &n
		case "posts":
			profile.TotalPosts = &n
		}
	}
	if !matched {
		return domain.Profile{}, fmt.Errorf("profile page for @%s has no counters", handle)
	}

	if m := nameExpr.FindStringSubmatch(desc); m != nil {
		profile.FullName = strings.TrimSpace(m[1])
	}
	if pic, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		profile.ProfilePicURL = pic
	}
	return profile, nil
}

// parseCount understands "1,234", "12.5K" and "3M".
func parseCount(raw string) (int64, error) {
	v := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	v = strings.ReplaceAll(v, " ", "")
	mult := 1.0
	switch {
	case strings.HasSuffix(v, "K"):
		mult, v = 1e3, strings.TrimSuffix(v, "K")
	case strings.HasSuffix(v, "M"):
		mult, v = 1e6, strings.TrimSuffix(v, "M")
	case strings.HasSuffix(v, "B"):
		mult, v = 1e9, strings.TrimSuffix(v, "B")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse count %q: %w", raw, err)
	}
	return int64(f*mult + 0.5), nil
}
