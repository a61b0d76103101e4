package db

import "time"

type teamModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
	URL  string
}

func (teamModel) TableName() string { return "teams" }

type tournamentModel struct {
	ID         uint    `gorm:"primaryKey"`
	Name       string  `gorm:"uniqueIndex;not null"`
	URL        *string `gorm:"uniqueIndex"`
	ExternalID *int64  `gorm:"uniqueIndex"`
}

func (tournamentModel) TableName() string { return "tournaments" }

type matchStateModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (matchStateModel) TableName() string { return "match_states" }

type matchModel struct {
	ID             uint   `gorm:"primaryKey"`
	URL            string `gorm:"uniqueIndex;not null"`
	UnixTimeUTCSec int64  `gorm:"column:unix_time_utc_sec;index;not null"`
	Stars          int    `gorm:"not null"`
	Team1ID        uint   `gorm:"not null"`
	Team2ID        uint   `gorm:"not null"`
	TournamentID   uint   `gorm:"not null"`
	StateID        uint   `gorm:"not null"`

	Team1        teamModel          `gorm:"foreignKey:Team1ID"`
	Team2        teamModel          `gorm:"foreignKey:Team2ID"`
	Tournament   tournamentModel    `gorm:"foreignKey:TournamentID"`
	State        matchStateModel    `gorm:"foreignKey:StateID"`
	Translations []translationModel `gorm:"foreignKey:MatchID"`
}

func (matchModel) TableName() string { return "matches" }

type streamerModel struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null"`
	Language string
	URL      string `gorm:"uniqueIndex;not null"`
}

func (streamerModel) TableName() string { return "streamers" }

type translationModel struct {
	ID         uint `gorm:"primaryKey"`
	MatchID    uint `gorm:"not null;uniqueIndex:idx_translations_match_streamer,priority:1"`
	StreamerID uint `gorm:"not null;uniqueIndex:idx_translations_match_streamer,priority:2"`

	Streamer streamerModel `gorm:"foreignKey:StreamerID"`
}

func (translationModel) TableName() string { return "translations" }

type newsItemModel struct {
	ID             uint      `gorm:"primaryKey"`
	PublishedAt    time.Time `gorm:"index;not null"`
	Title          string    `gorm:"not null"`
	ShortDesc      string
	URL            string  `gorm:"uniqueIndex;not null"`
	CommentCount   int     `gorm:"not null"`
	CommentAvgHour float64 `gorm:"not null"`
}

func (newsItemModel) TableName() string { return "news_items" }

type newsItemSentModel struct {
	ID         uint      `gorm:"primaryKey"`
	NewsItemID uint      `gorm:"not null;uniqueIndex:idx_news_item_sent_pair,priority:1"`
	ChatID     uint      `gorm:"not null;uniqueIndex:idx_news_item_sent_pair,priority:2"`
	SentAt     time.Time `gorm:"not null"`
}

func (newsItemSentModel) TableName() string { return "news_item_sent" }

type chatModel struct {
	ID         uint  `gorm:"primaryKey"`
	TelegramID int64 `gorm:"uniqueIndex;not null"`
	Title      string
	Type       string
}

func (chatModel) TableName() string { return "chats" }

type userModel struct {
	ID             uint  `gorm:"primaryKey"`
	TelegramUserID int64 `gorm:"uniqueIndex;not null"`
	Username       string
	FirstName      string
	LastName       string
	IsBot          bool
	IsPremium      bool
	LanguageCode   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userModel) TableName() string { return "users" }

type subscriberModel struct {
	ID        uint `gorm:"primaryKey"`
	ChatID    uint `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time

	Chat chatModel `gorm:"foreignKey:ChatID"`
}

func (subscriberModel) TableName() string { return "subscribers" }

type userTimezoneModel struct {
	ID               uint `gorm:"primaryKey"`
	UserID           uint `gorm:"index;not null"`
	UTCOffsetMinutes int  `gorm:"column:utc_offset_minutes;not null"`
	CreatedAt        time.Time
}

func (userTimezoneModel) TableName() string { return "user_timezones" }

type userRequestModel struct {
	ID         uint      `gorm:"primaryKey"`
	ChatID     uint      `gorm:"index;not null"`
	UserID     uint      `gorm:"index;not null"`
	ReceivedAt time.Time `gorm:"index;not null"`
	TelegramAt time.Time
	MessageID  int
	Text       string
}

func (userRequestModel) TableName() string { return "user_requests" }
