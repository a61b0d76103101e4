package domain

import (
	"fmt"
	"time"
)

type User struct {
	ID             uint
	TelegramUserID int64
	Username       string
	FirstName      string
	LastName       string
	IsBot          bool
	IsPremium      bool
	LanguageCode   string
	CreatedAt      time.Time
}

type Chat struct {
	ID         uint
	TelegramID int64
	Title      string
	Type       string
}

type Subscriber struct {
	ID     uint
	ChatID uint
}

const (
	MinUTCOffsetMinutes = -12 * 60
	MaxUTCOffsetMinutes = 14 * 60
)

type UserTimezone struct {
	ID               uint
	UserID           uint
	UTCOffsetMinutes int
}

func (tz UserTimezone) Location() *time.Location {
	return FixedZone(tz.UTCOffsetMinutes)
}

func FixedZone(offsetMinutes int) *time.Location {
	if offsetMinutes == 0 {
		return time.UTC
	}
	sign := '+'
	abs := offsetMinutes
	if abs < 0 {
		sign = '-'
		abs = -abs
	}
	name := fmt.Sprintf("UTC%c%02d", sign, abs/60)
	if abs%60 != 0 {
		name += fmt.Sprintf(":%02d", abs%60)
	}
	return time.FixedZone(name, offsetMinutes*60)
}

type UserRequest struct {
	ID         uint
	ChatID     uint
	UserID     uint
	ReceivedAt time.Time
	TelegramAt time.Time
	MessageID  int
	Text       string
}
