package types

type (
	// LeaderboardEntry is one rendered row of the global or per group ranking.
	LeaderboardEntry struct {
		Rank        int64     `json:"rank"         validate:"required"`
		UserID      string    `json:"user_id"      validate:"required,uuid_rfc4122"`
		DisplayName string    `json:"display_name" validate:"required"`
		Score       int64     `json:"score"`
		SolvedCount int64     `json:"solved_count"`
		LastSolved  UnixMilli `json:"last_solved,omitempty"`
	}

	// UserStanding is one user's view of their own ranking.
	UserStanding struct {
		UserID      string `json:"user_id"      validate:"required,uuid_rfc4122"`
		Score       int64  `json:"score"`
		SolvedCount int64  `json:"solved_count"`
		// 1-based, by descending score. 0 when the user is not on the board.
		Rank int64 `json:"rank"`
	}
)
