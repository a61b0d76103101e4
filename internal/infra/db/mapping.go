package db

import (
	"time"

	"github.com/DiPaolo/hltv-upcoming-events-bot/internal/domain"
)

func mapTeamToDomain(model teamModel) domain.Team {
	return domain.Team{ID: model.ID, Name: model.Name, URL: model.URL}
}

func mapTeamToModel(team domain.Team) teamModel {
	return teamModel{ID: team.ID, Name: team.Name, URL: team.URL}
}

func mapTournamentToDomain(model tournamentModel) domain.Tournament {
	tournament := domain.Tournament{ID: model.ID, Name: model.Name, ExternalID: model.ExternalID}
	if model.URL != nil {
		tournament.URL = *model.URL
	}
	return tournament
}

func mapTournamentToModel(tournament domain.Tournament) tournamentModel {
	model := tournamentModel{ID: tournament.ID, Name: tournament.Name, ExternalID: tournament.ExternalID}
	// empty url is stored as NULL so it does not collide with other tournaments
	if tournament.URL != "" {
		url := tournament.URL
		model.URL = &url
	}
	return model
}

func mapMatchRowToDomain(model matchModel) domain.MatchRow {
	return domain.MatchRow{
		ID:           model.ID,
		URL:          model.URL,
		TimeUTC:      time.Unix(model.UnixTimeUTCSec, 0).UTC(),
		Stars:        model.Stars,
		Team1ID:      model.Team1ID,
		Team2ID:      model.Team2ID,
		TournamentID: model.TournamentID,
		StateID:      model.StateID,
	}
}

func mapMatchRowToModel(row domain.MatchRow) matchModel {
	return matchModel{
		ID:             row.ID,
		URL:            row.URL,
		UnixTimeUTCSec: row.TimeUTC.Unix(),
		Stars:          row.Stars,
		Team1ID:        row.Team1ID,
		Team2ID:        row.Team2ID,
		TournamentID:   row.TournamentID,
		StateID:        row.StateID,
	}
}

// mapMatchToDomain expects Team1, Team2, Tournament, State and Translations.Streamer preloaded.
func mapMatchToDomain(model matchModel) domain.Match {
	match := domain.Match{
		ID:         model.ID,
		URL:        model.URL,
		TimeUTC:    time.Unix(model.UnixTimeUTCSec, 0).UTC(),
		Stars:      model.Stars,
		Team1:      mapTeamToDomain(model.Team1),
		Team2:      mapTeamToDomain(model.Team2),
		Tournament: mapTournamentToDomain(model.Tournament),
		State:      domain.ParseMatchState(model.State.Name),
	}
	for _, translation := range model.Translations {
		match.Streamers = append(match.Streamers, mapStreamerToDomain(translation.Streamer))
	}
	return match
}

func mapStreamerToDomain(model streamerModel) domain.Streamer {
	return domain.Streamer{ID: model.ID, Name: model.Name, Language: model.Language, URL: model.URL}
}

func mapStreamerToModel(streamer domain.Streamer) streamerModel {
	return streamerModel{ID: streamer.ID, Name: streamer.Name, Language: streamer.Language, URL: streamer.URL}
}

func mapTranslationToDomain(model translationModel) domain.Translation {
	return domain.Translation{ID: model.ID, MatchID: model.MatchID, StreamerID: model.StreamerID}
}

func mapTranslationToModel(translation domain.Translation) translationModel {
	return translationModel{ID: translation.ID, MatchID: translation.MatchID, StreamerID: translation.StreamerID}
}

func mapNewsItemToDomain(model newsItemModel) domain.NewsItem {
	return domain.NewsItem{
		ID:             model.ID,
		PublishedAt:    model.PublishedAt.UTC(),
		Title:          model.Title,
		ShortDesc:      model.ShortDesc,
		URL:            model.URL,
		CommentCount:   model.CommentCount,
		CommentAvgHour: model.CommentAvgHour,
	}
}

func mapNewsItemToModel(item domain.NewsItem) newsItemModel {
	return newsItemModel{
		ID:             item.ID,
		PublishedAt:    item.PublishedAt.UTC(),
		Title:          item.Title,
		ShortDesc:      item.ShortDesc,
		URL:            item.URL,
		CommentCount:   item.CommentCount,
		CommentAvgHour: item.CommentAvgHour,
	}
}

func mapNewsItemsToDomain(models []newsItemModel) []domain.NewsItem {
	items := make([]domain.NewsItem, 0, len(models))
	for _, model := range models {
		items = append(items, mapNewsItemToDomain(model))
	}
	return items
}

func mapNewsItemSentToDomain(model newsItemSentModel) domain.NewsItemSent {
	return domain.NewsItemSent{ID: model.ID, NewsItemID: model.NewsItemID, ChatID: model.ChatID, SentAt: model.SentAt.UTC()}
}

func mapNewsItemSentToModel(sent domain.NewsItemSent) newsItemSentModel {
	return newsItemSentModel{ID: sent.ID, NewsItemID: sent.NewsItemID, ChatID: sent.ChatID, SentAt: sent.SentAt.UTC()}
}

func mapChatToDomain(model chatModel) domain.Chat {
	return domain.Chat{ID: model.ID, TelegramID: model.TelegramID, Title: model.Title, Type: model.Type}
}

func mapChatToModel(chat domain.Chat) chatModel {
	return chatModel{ID: chat.ID, TelegramID: chat.TelegramID, Title: chat.Title, Type: chat.Type}
}

func mapUserToDomain(model userModel) domain.User {
	return domain.User{
		ID:             model.ID,
		TelegramUserID: model.TelegramUserID,
		Username:       model.Username,
		FirstName:      model.FirstName,
		LastName:       model.LastName,
		IsBot:          model.IsBot,
		IsPremium:      model.IsPremium,
		LanguageCode:   model.LanguageCode,
		CreatedAt:      model.CreatedAt,
	}
}

func mapUserToModel(user domain.User) userModel {
	return userModel{
		ID:             user.ID,
		TelegramUserID: user.TelegramUserID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		IsBot:          user.IsBot,
		IsPremium:      user.IsPremium,
		LanguageCode:   user.LanguageCode,
		CreatedAt:      user.CreatedAt,
	}
}

func mapSubscriberToDomain(model subscriberModel) domain.Subscriber {
	return domain.Subscriber{ID: model.ID, ChatID: model.ChatID}
}

func mapSubscriberToModel(subscriber domain.Subscriber) subscriberModel {
	return subscriberModel{ID: subscriber.ID, ChatID: subscriber.ChatID}
}

func mapUserTimezoneToDomain(model userTimezoneModel) domain.UserTimezone {
	return domain.UserTimezone{ID: model.ID, UserID: model.UserID, UTCOffsetMinutes: model.UTCOffsetMinutes}
}

func mapUserTimezoneToModel(tz domain.UserTimezone) userTimezoneModel {
	return userTimezoneModel{ID: tz.ID, UserID: tz.UserID, UTCOffsetMinutes: tz.UTCOffsetMinutes}
}

func mapUserRequestToDomain(model userRequestModel) domain.UserRequest {
	return domain.UserRequest{
		ID:         model.ID,
		ChatID:     model.ChatID,
		UserID:     model.UserID,
		ReceivedAt: model.ReceivedAt.UTC(),
		TelegramAt: model.TelegramAt.UTC(),
		MessageID:  model.MessageID,
		Text:       model.Text,
	}
}

func mapUserRequestToModel(request domain.UserRequest) userRequestModel {
	return userRequestModel{
		ID:         request.ID,
		ChatID:     request.ChatID,
		UserID:     request.UserID,
		ReceivedAt: request.ReceivedAt.UTC(),
		TelegramAt: request.TelegramAt.UTC(),
		MessageID:  request.MessageID,
		Text:       request.Text,
	}
}
