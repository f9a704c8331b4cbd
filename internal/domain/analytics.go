package domain

import "time"

// EventType is one of the fixed analytics event kinds the sink accepts.
type EventType string

const (
	EventQuizView               EventType = "quiz_view"
	EventQuizStart              EventType = "quiz_start"
	EventQuizQuestionAnswered   EventType = "quiz_question_answered"
	EventQuizCompleted          EventType = "quiz_completed"
	EventQuizRetaken            EventType = "quiz_retaken"
	EventQuizShareClick         EventType = "quiz_share_click"
	EventQuizResultImpression   EventType = "quiz_result_impression"
	EventQuizResultBadgeAwarded EventType = "quiz_result_badge_awarded"
	EventQuizRelatedQuizClick   EventType = "quiz_related_quiz_click"
)

// Valid reports whether the event type belongs to the fixed enum. Unknown
// types are rejected by the sink, not silently recorded.
func (e EventType) Valid() bool {
	switch e {
	case EventQuizView, EventQuizStart, EventQuizQuestionAnswered,
		EventQuizCompleted, EventQuizRetaken, EventQuizShareClick,
		EventQuizResultImpression, EventQuizResultBadgeAwarded,
		EventQuizRelatedQuizClick:
		return true
	}
	return false
}

// AnalyticsEvent is one recorded submission-lifecycle event.
type AnalyticsEvent struct {
	ID        string
	QuizSlug  string
	Type      EventType
	Payload   map[string]interface{}
	CreatedAt time.Time
}

// NewAnalyticsEvent creates an event for the given quiz and type.
func NewAnalyticsEvent(slug string, eventType EventType, payload map[string]interface{}) *AnalyticsEvent {
	return &AnalyticsEvent{
		QuizSlug:  slug,
		Type:      eventType,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}
