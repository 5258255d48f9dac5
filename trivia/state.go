package trivia

// State is a step of the round loop.
type State int

const (
	SelectTopic State = iota
	GenerateQuestion
	AwaitAnswer
	Evaluate
)

func (s State) String() string {
	switch s {
	case SelectTopic:
		return "SELECT TOPIC"
	case GenerateQuestion:
		return "GENERATE QUESTION"
	case AwaitAnswer:
		return "AWAIT ANSWER"
	case Evaluate:
		return "EVALUATE"
	default:
		return "INVALID STATE"
	}
}

// Next returns the state that follows s. Evaluate loops back to
// GenerateQuestion, SelectTopic is never entered again.
func (s State) Next() State {
	switch s {
	case SelectTopic:
		return GenerateQuestion
	case GenerateQuestion:
		return AwaitAnswer
	case AwaitAnswer:
		return Evaluate
	default:
		return GenerateQuestion
	}
}
