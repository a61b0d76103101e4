package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/dustin/go-humanize"
)

const (
	NoMatchesText = "No interesting matches today."
	NoNewsText    = "No interesting news lately."
)

// Renderer turns matches and news into Telegram HTML messages.
type Renderer struct {
	streamLanguage string
}

func NewRenderer(streamLanguage string) *Renderer {
	return &Renderer{streamLanguage: streamLanguage}
}

// InterestingMatches keeps starred matches that have a stream in the configured language.
func (r *Renderer) InterestingMatches(matches []domain.Match) []domain.Match {
	var out []domain.Match
	for _, match := range matches {
		if match.Stars > 0 && len(match.StreamersInLanguage(r.streamLanguage)) > 0 {
			out = append(out, match)
		}
	}
	return out
}

// RenderMatches prints one line per interesting match with times in loc. When every
// match belongs to the same tournament its name goes to the header instead.
func (r *Renderer) RenderMatches(matches []domain.Match, loc *time.Location) string {
	interesting := r.InterestingMatches(matches)
	if len(interesting) == 0 {
		return NoMatchesText
	}
	if loc == nil {
		loc = time.UTC
	}

	tournaments := make(map[string]struct{})
	for _, match := range interesting {
		tournaments[match.Tournament.Name] = struct{}{}
	}
	single := len(tournaments) == 1

	var builder strings.Builder
	if single {
		fmt.Fprintf(&builder, "Today: <b>%s</b>\n\n", html.EscapeString(interesting[0].Tournament.Name))
	}
	for i, match := range interesting {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		fmt.Fprintf(
			&builder,
			"%s %s %s - %s",
			match.TimeUTC.In(loc).Format("15:04"),
			strings.Repeat("⭐", min(match.Stars, domain.MaxStars)),
			html.EscapeString(match.Team1.Name),
			html.EscapeString(match.Team2.Name),
		)
		if !single {
			fmt.Fprintf(&builder, " (%s)", html.EscapeString(match.Tournament.Name))
		}
		for _, streamer := range match.StreamersInLanguage(r.streamLanguage) {
			fmt.Fprintf(&builder, " <a href='%s'>🎥 %s</a>", html.EscapeString(streamer.URL), html.EscapeString(streamer.Name))
		}
	}
	fmt.Fprintf(&builder, "\n\n<i>Times in %s</i>", html.EscapeString(loc.String()))
	return builder.String()
}

// RenderNews prints each item as a linked bold title, its age and short description.
func (r *Renderer) RenderNews(items []domain.NewsItem, now time.Time) string {
	if len(items) == 0 {
		return NoNewsText
	}
	blocks := make([]string, 0, len(items))
	for _, item := range items {
		var builder strings.Builder
		fmt.Fprintf(&builder, "<b><a href='%s'>%s</a></b>\n", html.EscapeString(item.URL), html.EscapeString(item.Title))
		fmt.Fprintf(&builder, "<i>%s, %s comments</i>", humanize.RelTime(item.PublishedAt, now, "ago", "from now"), humanize.Comma(int64(item.CommentCount)))
		if desc := strings.TrimSpace(item.ShortDesc); desc != "" {
			builder.WriteString("\n\n")
			builder.WriteString(html.EscapeString(desc))
		}
		blocks = append(blocks, builder.String())
	}
	return strings.Join(blocks, "\n\n")
}
