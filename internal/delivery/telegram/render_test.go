package telegram

import (
	"testing"
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
	"github.com/stretchr/testify/assert"
)

func renderMatch(url, tournament string, stars int, at time.Time, streamers ...domain.Streamer) domain.Match {
	return domain.Match{
		URL:        url,
		TimeUTC:    at,
		Stars:      stars,
		Team1:      domain.Team{Name: "NAVI"},
		Team2:      domain.Team{Name: "G2 & Co"},
		Tournament: domain.Tournament{Name: tournament},
		Streamers:  streamers,
	}
}

var (
	russianStream = domain.Streamer{Name: "Maincast", Language: "Russia", URL: "https://twitch.tv/maincast"}
	englishStream = domain.Streamer{Name: "ESL", Language: "United Kingdom", URL: "https://twitch.tv/esl"}
)

func TestRenderer_RenderMatches(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	renderer := NewRenderer("Russia")

	t.Run("single tournament goes to header", func(t *testing.T) {
		t.Parallel()
		text := renderer.RenderMatches([]domain.Match{
			renderMatch("m1", "IEM Dallas", 2, at, russianStream, englishStream),
			renderMatch("m2", "IEM Dallas", 0, at, russianStream),
			renderMatch("m3", "IEM Dallas", 1, at, englishStream),
		}, domain.FixedZone(180))

		assert.Equal(t, "Today: <b>IEM Dallas</b>\n\n"+
			"18:30 ⭐⭐ NAVI - G2 &amp; Co <a href='https://twitch.tv/maincast'>🎥 Maincast</a>"+
			"\n\n<i>Times in UTC+03</i>", text)
	})

	t.Run("mixed tournaments per line", func(t *testing.T) {
		t.Parallel()
		text := renderer.RenderMatches([]domain.Match{
			renderMatch("m1", "IEM Dallas", 1, at, russianStream),
			renderMatch("m2", "BLAST Spring", 3, at.Add(time.Hour), russianStream),
		}, nil)

		assert.NotContains(t, text, "Today:")
		assert.Contains(t, text, "15:30 ⭐ NAVI - G2 &amp; Co (IEM Dallas)")
		assert.Contains(t, text, "16:30 ⭐⭐⭐ NAVI - G2 &amp; Co (BLAST Spring)")
		assert.Contains(t, text, "Times in UTC")
	})

	t.Run("nothing interesting", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, NoMatchesText, renderer.RenderMatches([]domain.Match{renderMatch("m", "x", 0, at, russianStream)}, time.UTC))
		assert.Equal(t, NoMatchesText, renderer.RenderMatches(nil, time.UTC))
	})
}

func TestRenderer_RenderNews(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)
	renderer := NewRenderer("Russia")

	text := renderer.RenderNews([]domain.NewsItem{
		{Title: "s1mple <back>", URL: "https://www.cybersport.ru/a", ShortDesc: "Short.", PublishedAt: now.Add(-3 * time.Hour), CommentCount: 1234},
		{Title: "Major", URL: "https://www.cybersport.ru/b", PublishedAt: now.Add(-10 * time.Minute)},
	}, now)

	assert.Equal(t,
		"<b><a href='https://www.cybersport.ru/a'>s1mple &lt;back&gt;</a></b>\n<i>3 hours ago, 1,234 comments</i>\n\nShort."+
			"\n\n"+
			"<b><a href='https://www.cybersport.ru/b'>Major</a></b>\n<i>10 minutes ago, 0 comments</i>",
		text)
	assert.Equal(t, NoNewsText, renderer.RenderNews(nil, now))
}
