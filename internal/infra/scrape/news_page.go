package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const minArticleAge = time.Minute

// NewsPage parses the news listing, newest articles first.
type NewsPage struct {
	client *Client
	url    string
	now    func() time.Time
	logger *zap.Logger
}

func NewNewsPage(client *Client, pageURL string, logger *zap.Logger) *NewsPage {
	return &NewsPage{client: client, url: pageURL, now: time.Now, logger: logger}
}

// FetchNews returns listed articles until the first one published before since.
func (p *NewsPage) FetchNews(ctx context.Context, since time.Time) ([]domain.ScrapedNews, error) {
	base, err := url.Parse(p.url)
	if err != nil {
		return nil, fmt.Errorf("news url: %w", err)
	}
	body, err := p.client.Get(ctx, p.url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse news page: %w", err)
	}

	now := p.now().UTC()
	var out []domain.ScrapedNews
	skipped := 0
	doc.Find("article").EachWithBreak(func(_ int, article *goquery.Selection) bool {
		item, err := p.parseArticle(article, base, now)
		if err != nil {
			skipped++
			p.logger.Warn("failed to parse article", zap.Error(err))
			return true
		}
		if item.PublishedAtUTC < since.Unix() {
			return false
		}
		out = append(out, item)
		return true
	})
	p.logger.Info("news page parsed", zap.String("url", p.url), zap.Time("since", since), zap.Int("count", len(out)), zap.Int("skipped", skipped))
	return out, nil
}

func (p *NewsPage) parseArticle(article *goquery.Selection, base *url.URL, now time.Time) (domain.ScrapedNews, error) {
	link := article.Find("a[href]").First()
	href, _ := link.Attr("href")
	if strings.TrimSpace(href) == "" {
		return domain.ScrapedNews{}, fmt.Errorf("no link")
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return domain.ScrapedNews{}, fmt.Errorf("bad link %q: %w", href, err)
	}
	articleURL := base.ResolveReference(ref).String()

	stamp, ok := article.Find("time[datetime]").First().Attr("datetime")
	if !ok || strings.TrimSpace(stamp) == "" {
		return domain.ScrapedNews{}, fmt.Errorf("article %s: no datetime", articleURL)
	}
	published, err := time.Parse(time.RFC3339, strings.TrimSpace(stamp))
	if err != nil {
		return domain.ScrapedNews{}, fmt.Errorf("article %s: %w", articleURL, err)
	}

	title := strings.TrimSpace(article.Find("h3").First().Text())
	if title == "" {
		return domain.ScrapedNews{}, fmt.Errorf("article %s: empty title", articleURL)
	}

	commentCount := 0
	if counter := article.Find("[class^=count]").First(); counter.Length() > 0 {
		value, err := strconv.Atoi(strings.TrimSpace(counter.Text()))
		if err != nil {
			p.logger.Warn("bad comment count", zap.String("url", articleURL), zap.String("value", counter.Text()))
		} else {
			commentCount = value
		}
	}

	return domain.ScrapedNews{
		PublishedAtUTC: published.Unix(),
		Title:          title,
		ShortDesc:      strings.TrimSpace(article.Find("p").First().Text()),
		URL:            articleURL,
		CommentCount:   commentCount,
		CommentAvgHour: CommentVelocity(commentCount, now.Sub(published)),
	}, nil
}

// CommentVelocity is comments per hour of article age rounded to two decimals. Ages
// under a minute count as one minute.
func CommentVelocity(comments int, age time.Duration) float64 {
	if comments <= 0 {
		return 0
	}
	if age < minArticleAge {
		age = minArticleAge
	}
	hours := decimal.NewFromInt(int64(age)).Div(decimal.NewFromInt(int64(time.Hour)))
	return decimal.NewFromInt(int64(comments)).Div(hours).Round(2).InexactFloat64()
}
