package audit

import (
	"github.com/codearena/judge-api/internal/types"
)

type EventType string

const (
	EvtSubmissionReceived  EventType = "submission_received"
	EvtSubmissionVerdict   EventType = "submission_verdict"
	EvtRejudgeRequested    EventType = "rejudge_requested"
	EvtLeaderboardRebuilt  EventType = "leaderboard_rebuilt"
	EvtLeaderboardCredited EventType = "leaderboard_credited"
)

type Disposition string

const (
	DispositionGood    Disposition = "good"
	DispositionBad     Disposition = "bad"
	DispositionNeutral Disposition = "neutral"
)

const schemaVersion = "1.0"
const logContext = "judgeapi-audit"

type eventHeader struct {
	LogContext    string          `json:"log_context"`
	SchemaVersion string          `json:"schema_version"`
	Type          EventType       `json:"type"`
	Disposition   Disposition     `json:"disposition"`
	Timestamp     types.UnixMilli `json:"timestamp"`
	UserID        *string         `json:"user_id,omitempty"`
	SubmissionID  *string         `json:"submission_id,omitempty"`
}

type submissionVerdictEvent struct {
	eventHeader
	Event struct {
		Verdict         types.Verdict `json:"verdict"`
		TestCasesPassed int           `json:"test_cases_passed"`
		TotalTestCases  int           `json:"total_test_cases"`
		Score           int64         `json:"score"`
	} `json:"event"`
}

type leaderboardRebuiltEvent struct {
	eventHeader
	Event struct {
		Trigger string `json:"trigger"`
	} `json:"event"`
}
