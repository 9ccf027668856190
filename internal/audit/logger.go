package audit

import (
	"encoding/json"
	"time"

	"github.com/codearena/judge-api/internal/logger"
	"github.com/codearena/judge-api/internal/types"
)

// Context carries who and what an audit event is about.
type Context struct {
	UserID       *string
	SubmissionID *string
}

func dispForVerdict(verdict types.Verdict) Disposition {
	switch verdict {
	case types.VerdictAccepted:
		return DispositionGood
	case types.VerdictPending, types.VerdictRunning:
		return DispositionNeutral
	default:
		return DispositionBad
	}
}

func newHeader(c Context, t EventType, disp Disposition) eventHeader {
	return eventHeader{
		LogContext:    logContext,
		SchemaVersion: schemaVersion,
		Type:          t,
		Disposition:   disp,
		Timestamp:     types.NewUnixMilli(time.Now()),
		UserID:        c.UserID,
		SubmissionID:  c.SubmissionID,
	}
}

func emit(event any, eventType EventType) {
	evtStr, err := json.Marshal(event)
	if err != nil {
		logger.Logger.Error("could not serialize audit event", "type", eventType)
		return
	}

	logger.Logger.Info(string(evtStr), "audit", true)
}

func LogSubmissionReceived(c Context) {
	event := struct{ eventHeader }{newHeader(c, EvtSubmissionReceived, DispositionNeutral)}
	emit(event, EvtSubmissionReceived)
}

func LogSubmissionVerdict(
	c Context,
	verdict types.Verdict,
	testCasesPassed, totalTestCases int,
	score int64,
) {
	event := submissionVerdictEvent{
		eventHeader: newHeader(c, EvtSubmissionVerdict, dispForVerdict(verdict)),
	}
	event.Event.Verdict = verdict
	event.Event.TestCasesPassed = testCasesPassed
	event.Event.TotalTestCases = totalTestCases
	event.Event.Score = score

	emit(event, EvtSubmissionVerdict)
}

func LogRejudgeRequested(c Context) {
	event := struct{ eventHeader }{newHeader(c, EvtRejudgeRequested, DispositionNeutral)}
	emit(event, EvtRejudgeRequested)
}

func LogLeaderboardCredited(c Context) {
	event := struct{ eventHeader }{newHeader(c, EvtLeaderboardCredited, DispositionGood)}
	emit(event, EvtLeaderboardCredited)
}

func LogLeaderboardRebuilt(c Context, trigger string) {
	event := leaderboardRebuiltEvent{
		eventHeader: newHeader(c, EvtLeaderboardRebuilt, DispositionNeutral),
	}
	event.Event.Trigger = trigger

	emit(event, EvtLeaderboardRebuilt)
}
