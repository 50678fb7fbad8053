package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/padel-league/internal/domain/card"
	"github.com/riskibarqy/padel-league/internal/domain/league"
	"github.com/riskibarqy/padel-league/internal/domain/match"
	"github.com/riskibarqy/padel-league/internal/domain/photo"
	"github.com/riskibarqy/padel-league/internal/domain/rating"
	"github.com/riskibarqy/padel-league/internal/usecase"
)

type createLeagueRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	IsPrivate *bool  `json:"is_private"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"invite_code" validate:"required,max=32"`
}

type updateLeagueNameRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type createMatchRequest struct {
	Date string `json:"date" validate:"required"`
}

type joinMatchRequest struct {
	Team int `json:"team" validate:"omitempty,oneof=1 2"`
}

type submitResultRequest struct {
	// Checked by the match service after permission and state checks.
	WinnerTeam int `json:"winner_team"`
}

type submitRatingsRequest struct {
	Ratings []ratingEntryRequest `json:"ratings" validate:"required,min=1,dive"`
}

type ratingEntryRequest struct {
	RatedID int64  `json:"rated_id" validate:"required,gt=0"`
	Score   int    `json:"score" validate:"required,min=1,max=10"`
	Comment string `json:"comment" validate:"max=500"`
}

type setCardActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type leagueDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	InviteCode  string    `json:"invite_code"`
	IsPrivate   bool      `json:"is_private"`
	CreatedByID int64     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type leagueDetailDTO struct {
	leagueDTO
	MemberIDs  []int64 `json:"member_ids"`
	MatchCount int     `json:"match_count"`
}

type participantDTO struct {
	UserID int64 `json:"user_id"`
	Team   int   `json:"team"`
}

type participationDTO struct {
	ID       int64     `json:"id"`
	MatchID  int64     `json:"match_id"`
	UserID   int64     `json:"user_id"`
	Team     int       `json:"team"`
	JoinedAt time.Time `json:"joined_at"`
}

type matchDTO struct {
	ID           int64            `json:"id"`
	LeagueID     int64            `json:"league_id"`
	Date         time.Time        `json:"date"`
	Status       string           `json:"status"`
	WinnerTeam   *int             `json:"winner_team"`
	CreatedByID  int64            `json:"created_by_id"`
	CreatedAt    time.Time        `json:"created_at"`
	Participants []participantDTO `json:"participants"`
}

type matchViewDTO struct {
	matchDTO
	IsParticipating bool         `json:"is_participating"`
	CanViewCard     bool         `json:"can_view_card"`
	Card            *cardInfoDTO `json:"card,omitempty"`
}

type cardInfoDTO struct {
	ID           int64      `json:"id"`
	AssignmentID int64      `json:"assignment_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Used         bool       `json:"used"`
	UsedAt       *time.Time `json:"used_at,omitempty"`
}

type cardDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type ratingDTO struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	RaterID   int64     `json:"rater_id"`
	RatedID   int64     `json:"rated_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	UpdatedAt time.Time `json:"updated_at"`
}

type photoDTO struct {
	ID          int64     `json:"id"`
	MatchID     int64     `json:"match_id"`
	UploaderID  int64     `json:"uploader_id"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

type distributionDTO struct {
	MatchID  int64 `json:"match_id"`
	Assigned int   `json:"assigned"`
}

type partnerStatsDTO struct {
	UserID int64 `json:"user_id"`
	Played int   `json:"played"`
	Won    int   `json:"won"`
}

type cardUsageDTO struct {
	CardID int64  `json:"card_id"`
	Name   string `json:"name"`
	Used   int    `json:"used"`
}

type userStatsDTO struct {
	UserID          int64             `json:"user_id"`
	TotalMatches    int               `json:"total_matches"`
	MatchesWon      int               `json:"matches_won"`
	WinRate         float64           `json:"win_rate"`
	RatingsReceived int               `json:"ratings_received"`
	AverageRating   float64           `json:"average_rating"`
	Partners        []partnerStatsDTO `json:"partners"`
	CardUsage       []cardUsageDTO    `json:"card_usage"`
}

func leagueToDTO(ctx context.Context, v league.League) leagueDTO {
	_, span := startSpan(ctx, "httpapi.leagueToDTO")
	defer span.End()

	return leagueDTO{
		ID:          v.ID,
		Name:        v.Name,
		InviteCode:  v.InviteCode,
		IsPrivate:   v.IsPrivate,
		CreatedByID: v.CreatedByID,
		CreatedAt:   v.CreatedAt,
	}
}

func leagueDetailToDTO(ctx context.Context, v usecase.LeagueDetail) leagueDetailDTO {
	memberIDs := v.MemberIDs
	if memberIDs == nil {
		memberIDs = []int64{}
	}
	return leagueDetailDTO{
		leagueDTO:  leagueToDTO(ctx, v.League),
		MemberIDs:  memberIDs,
		MatchCount: v.MatchCount,
	}
}

func matchToDTO(ctx context.Context, m match.Match, participants []match.Participation) matchDTO {
	_, span := startSpan(ctx, "httpapi.matchToDTO")
	defer span.End()

	out := matchDTO{
		ID:           m.ID,
		LeagueID:     m.LeagueID,
		Date:         m.ScheduledAt,
		Status:       string(m.Status),
		CreatedByID:  m.CreatedByID,
		CreatedAt:    m.CreatedAt,
		Participants: make([]participantDTO, 0, len(participants)),
	}
	if m.WinnerTeam.Valid() {
		winner := int(m.WinnerTeam)
		out.WinnerTeam = &winner
	}
	for _, p := range participants {
		out.Participants = append(out.Participants, participantDTO{UserID: p.UserID, Team: int(p.Team)})
	}
	return out
}

func matchViewToDTO(ctx context.Context, v usecase.MatchView) matchViewDTO {
	out := matchViewDTO{
		matchDTO:        matchToDTO(ctx, v.Match, v.Participants),
		IsParticipating: v.IsParticipating,
		CanViewCard:     v.CanViewCard,
	}
	if v.Card != nil {
		info := cardInfoToDTO(*v.Card)
		out.Card = &info
	}
	return out
}

func participationToDTO(p match.Participation) participationDTO {
	return participationDTO{
		ID:       p.ID,
		MatchID:  p.MatchID,
		UserID:   p.UserID,
		Team:     int(p.Team),
		JoinedAt: p.JoinedAt,
	}
}

func cardInfoToDTO(v usecase.CardInfo) cardInfoDTO {
	return cardInfoDTO{
		ID:           v.CardID,
		AssignmentID: v.AssignmentID,
		Name:         v.Name,
		Description:  v.Description,
		Used:         v.Used,
		UsedAt:       v.UsedAt,
	}
}

func cardToDTO(v card.Card) cardDTO {
	return cardDTO{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		Active:      v.Active,
	}
}

func ratingToDTO(v rating.Rating) ratingDTO {
	return ratingDTO{
		ID:        v.ID,
		MatchID:   v.MatchID,
		RaterID:   v.RaterID,
		RatedID:   v.RatedID,
		Score:     v.Score,
		Comment:   v.Comment,
		UpdatedAt: v.UpdatedAt,
	}
}

func photoToDTO(v photo.Photo) photoDTO {
	return photoDTO{
		ID:          v.ID,
		MatchID:     v.MatchID,
		UploaderID:  v.UploaderID,
		FileName:    v.FileName,
		URL:         v.URL,
		ContentType: v.ContentType,
		SizeBytes:   v.SizeBytes,
		CreatedAt:   v.CreatedAt,
	}
}

func userStatsToDTO(ctx context.Context, v usecase.UserStats) userStatsDTO {
	_, span := startSpan(ctx, "httpapi.userStatsToDTO")
	defer span.End()

	out := userStatsDTO{
		UserID:          v.UserID,
		TotalMatches:    v.TotalMatches,
		MatchesWon:      v.MatchesWon,
		WinRate:         v.WinRate,
		RatingsReceived: v.RatingsReceived,
		AverageRating:   v.AverageRating,
		Partners:        make([]partnerStatsDTO, 0, len(v.Partners)),
		CardUsage:       make([]cardUsageDTO, 0, len(v.CardUsage)),
	}
	for _, p := range v.Partners {
		out.Partners = append(out.Partners, partnerStatsDTO{UserID: p.UserID, Played: p.Played, Won: p.Won})
	}
	for _, c := range v.CardUsage {
		out.CardUsage = append(out.CardUsage, cardUsageDTO{CardID: c.CardID, Name: c.Name, Used: c.Used})
	}
	return out
}
