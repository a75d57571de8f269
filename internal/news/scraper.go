package news

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stocksage/internal/api"
	"stocksage/internal/frame"
	"stocksage/internal/interfaces"
	"stocksage/internal/logger"
	"stocksage/internal/types"
)

// Source describes a site listing headlines for a ticker.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // e.g. "/news/tags/{symbol}.html"
	Selectors  Selectors
	Delay      time.Duration
}

// Selectors are CSS selectors relative to one listing item.
type Selectors struct {
	Item        string
	Title       string
	PublishedAt string
}

// Scraper collects headlines from news listing pages.
type Scraper struct {
	sources []Source
	timeout time.Duration
	max     int
	now     func() time.Time
}

var _ interfaces.HeadlineSource = (*Scraper)(nil)

type ScraperOption func(*Scraper)

// WithSources replaces the built-in sources.
func WithSources(sources ...Source) ScraperOption {
	return func(s *Scraper) { s.sources = sources }
}

// WithClock sets the clock used to date relative timestamps like "3 hours ago".
func WithClock(now func() time.Time) ScraperOption {
	return func(s *Scraper) { s.now = now }
}

// NewScraper returns a scraper over the default sources, keeping at most maxPerTicker
// headlines per ticker and source.
func NewScraper(timeout time.Duration, maxPerTicker int, opts ...ScraperOption) *Scraper {
	s := &Scraper{
		sources: DefaultSources(),
		timeout: timeout,
		max:     maxPerTicker,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.max <= 0 {
		s.max = 20
	}
	return s
}

// DefaultSources are financial news sites with per-symbol tag pages.
func DefaultSources() []Source {
	return []Source{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			Selectors:  Selectors{Item: "li.clearfix", Title: "h2 a, h3 a", PublishedAt: "span.ago, span"},
			Delay:      2 * time.Second,
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			Selectors:  Selectors{Item: "div.story-box", Title: "a", PublishedAt: "time"},
			Delay:      2 * time.Second,
		},
		{
			Name:       "BusinessStandard",
			BaseURL:    "https://www.business-standard.com",
			SearchPath: "/search?q={symbol}",
			Selectors:  Selectors{Item: "div.listing-txt", Title: "a.Hdng", PublishedAt: "span.listing-date"},
			Delay:      2 * time.Second,
		},
	}
}

// SelectSources keeps the named sources, case-insensitively. An empty list keeps all.
func SelectSources(all []Source, names []string) []Source {
	if len(names) == 0 {
		return all
	}
	want := map[string]bool{}
	for _, n := range names {
		want[strings.ToLower(strings.TrimSpace(n))] = true
	}
	var out []Source
	for _, s := range all {
		if want[strings.ToLower(s.Name)] {
			out = append(out, s)
		}
	}
	return out
}

// Headlines scrapes every source for every ticker. A failing source is logged and
// skipped; duplicate (date, ticker, headline) rows are dropped.
func (s *Scraper) Headlines(ctx context.Context, tickers []string) ([]types.HeadlineEvent, error) {
	logger.Info(ctx, "Starting headline scraping", "tickers", len(tickers), "sources", len(s.sources))

	seen := map[string]bool{}
	var events []types.HeadlineEvent
	for _, ticker := range tickers {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			continue
		}
		for i, source := range s.sources {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			got, err := s.scrapeSource(ctx, source, ticker)
			if err != nil {
				logger.ErrorWithErr(ctx, "Failed to scrape source", err, "source", source.Name, "ticker", ticker)
				continue
			}
			for _, e := range got {
				key := e.Date.Format(frame.DateLayout) + "|" + e.Ticker + "|" + e.Headline
				if seen[key] {
					continue
				}
				seen[key] = true
				events = append(events, e)
			}
			if i < len(s.sources)-1 && source.Delay > 0 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(source.Delay):
				}
			}
		}
	}

	logger.Info(ctx, "Headline scraping completed", "headlines", len(events))
	return events, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, ticker string) ([]types.HeadlineEvent, error) {
	var events []types.HeadlineEvent
	var visitErr error

	c := colly.NewCollector(
		colly.AllowedDomains(domain(source.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML(source.Selectors.Item, func(e *colly.HTMLElement) {
		if len(events) >= s.max {
			return
		}
		title := collapseSpace(e.DOM.Find(source.Selectors.Title).First().Text())
		if title == "" {
			return
		}
		events = append(events, types.HeadlineEvent{
			Date:     s.publishedDate(e.DOM.Find(source.Selectors.PublishedAt).First()),
			Ticker:   ticker,
			Headline: title,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("%s returned %d: %w", r.Request.URL, r.StatusCode, err)
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", url.PathEscape(strings.ToLower(ticker)))
	logger.Debug(ctx, "Visiting headline listing", "source", source.Name, "url", searchURL)
	if err := c.Visit(searchURL); err != nil && visitErr == nil {
		return nil, fmt.Errorf("visit %s: %w", searchURL, err)
	}
	c.Wait()
	if visitErr != nil {
		return nil, visitErr
	}
	return events, nil
}

var relativeAge = regexp.MustCompile(`(?i)(\d+)\s*(min|minute|hour|hr|day)s?\s+ago`)

// publishedDate reads a listing timestamp from a datetime attribute or the element text.
// Relative ages count back from the scraper clock; anything unreadable is dated today.
func (s *Scraper) publishedDate(sel *goquery.Selection) time.Time {
	now := s.now()
	if sel.Length() == 0 {
		return frame.CivilDate(now)
	}
	if attr, ok := sel.Attr("datetime"); ok {
		if t, ok := frame.ParseDate(attr); ok {
			return frame.CivilDate(t)
		}
	}
	text := collapseSpace(sel.Text())
	if t, ok := frame.ParseDate(text); ok {
		return frame.CivilDate(t)
	}
	for _, layout := range []string{"January 2, 2006", "Jan 2, 2006", "January 02, 2006 15:04 IST", "02 Jan 2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			return frame.CivilDate(t)
		}
	}
	if m := relativeAge.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		unit := time.Minute
		switch strings.ToLower(m[2]) {
		case "hour", "hr":
			unit = time.Hour
		case "day":
			unit = 24 * time.Hour
		}
		return frame.CivilDate(now.Add(-time.Duration(n) * unit))
	}
	return frame.CivilDate(now)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func domain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
