package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const HelpText = `This bot:
- lists today's interesting CS matches (HLTV stars and a stream in your language)
- links the stream right away
- sends the hottest news a few times a day

Commands:
/matches - upcoming interesting matches
/news - latest interesting news you have not seen yet
/subscribe - daily matches and news digests
/unsubscribe - stop the digests
/timezone +3 - show match times in UTC+3 (from -12 to +14)
/version - bot version
/help - this help`

var ErrInvalidArguments = errors.New("invalid arguments")

// ParseTimezoneOffset accepts whole-hour offsets like "3", "+3", "-5" or "UTC+3".
func ParseTimezoneOffset(args string) (int, error) {
	value := strings.TrimSpace(args)
	if len(value) >= 3 && strings.EqualFold(value[:3], "utc") {
		value = strings.TrimSpace(value[3:])
	}
	if value == "" {
		return 0, ErrInvalidArguments
	}
	hours, err := strconv.Atoi(strings.TrimPrefix(value, "+"))
	if err != nil || strings.HasPrefix(value, "+-") {
		return 0, ErrInvalidArguments
	}
	return hours, nil
}
