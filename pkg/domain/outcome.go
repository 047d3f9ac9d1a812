package domain

// OutcomeKind classifies the result of a single column fetch
type OutcomeKind string

// outcome kinds
const (
	OutcomePopulated    OutcomeKind = "populated"
	OutcomeEmpty        OutcomeKind = "empty"
	OutcomeNotFound     OutcomeKind = "not_found"
	OutcomeNetworkError OutcomeKind = "network_error"
)

// user-visible messages for non-populated outcomes
const (
	MessageEmpty        = "There were no tweets in the requested date range. Please check your settings and try again."
	MessageNotFound     = "This Twitter user does not exist. Please check your settings and try again."
	MessageNetworkError = "Check your Internet connection."
)

// Outcome is what a column renders after a fetch attempt
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Posts   []Post      `json:"posts,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Populated makes an outcome with posts, an empty list turns into Empty
func Populated(posts []Post) Outcome {
	if len(posts) == 0 {
		return Empty()
	}
	return Outcome{Kind: OutcomePopulated, Posts: posts}
}

// Empty makes an outcome for a successful fetch without posts
func Empty() Outcome {
	return Outcome{Kind: OutcomeEmpty, Message: MessageEmpty}
}

// NotFound makes an outcome for an unknown handle
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound, Message: MessageNotFound}
}

// NetworkError makes an outcome for any other failure
func NetworkError() Outcome {
	return Outcome{Kind: OutcomeNetworkError, Message: MessageNetworkError}
}

// IsError reports whether the outcome renders as an error message
func (o Outcome) IsError() bool {
	return o.Kind != OutcomePopulated
}
