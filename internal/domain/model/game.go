package model

import "time"

// CardInfo records one disciplinary card issued during a completed game.
type CardInfo struct {
	Type         string `json:"type"` // Yellow or Red
	Team         string `json:"team"`
	PlayerNumber int    `json:"player_number"`
	MinuteGiven  int    `json:"minute_given"`
	Reason       string `json:"reason"`
}

// GameResult captures the final state of a completed game. Scores are
// pointers so an in-progress result can omit them; they must be supplied
// together.
type GameResult struct {
	HomeTeamScore *int       `json:"home_team_score"`
	AwayTeamScore *int       `json:"away_team_score"`
	CardsIssued   []CardInfo `json:"cards_issued"`
}

// Game represents a game record owned by the game service.
type Game struct {
	ID                  string      `json:"id"`
	League              string      `json:"league"`
	Venue               string      `json:"venue"`
	HomeTeam            string      `json:"home_team"`
	AwayTeam            string      `json:"away_team"`
	Level               string      `json:"level"`
	HalvesLengthMinutes int         `json:"halves_length_minutes"`
	GameCompleted       bool        `json:"game_completed"`
	Result              *GameResult `json:"result"`
	ScheduledTime       time.Time   `json:"scheduled_time"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}
