package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/go-errors/errors"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/kaptinlin/jsonrepair"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/the-lightning-land/triviad/round"
	"math/rand/v2"
	"strings"
)

const (
	topicsTemperature   = 1.7
	questionTemperature = 0
	feedbackTemperature = 1.9
)

// Compile time check for protocol compatibility
var _ Generator = (*OpenAI)(nil)

type OpenAIConfig struct {
	// BaseURL of an OpenAI compatible API, e.g. a local Ollama.
	BaseURL string
	APIKey  string
	Model   string
	Logger  Logger
}

// OpenAI generates round content with a chat completion model.
type OpenAI struct {
	client *openai.Client
	model  string
	log    Logger

	topicsSchema   *jsonschema.Schema
	questionSchema *jsonschema.Schema
}

type topicsReply struct {
	A string `json:"A" jsonschema:"a distinct, interesting knowledge domain, e.g. Space Science"`
	B string `json:"B" jsonschema:"a second distinct domain"`
	C string `json:"C" jsonschema:"a third distinct domain"`
}

type questionReply struct {
	QuestionText  string `json:"question_text" jsonschema:"the text of the trivia question"`
	OptionA       string `json:"option_a" jsonschema:"option A text"`
	OptionB       string `json:"option_b" jsonschema:"option B text"`
	OptionC       string `json:"option_c" jsonschema:"option C text"`
	CorrectAnswer string `json:"correct_answer" jsonschema:"the correct option key (A, B, or C)"`
}

func NewOpenAI(config *OpenAIConfig) (*OpenAI, error) {
	opts := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := openai.NewClient(opts...)

	topicsSchema, err := jsonschema.For[topicsReply](&jsonschema.ForOptions{})
	if err != nil {
		return nil, errors.Errorf("could not build topics schema: %v", err)
	}

	questionSchema, err := jsonschema.For[questionReply](&jsonschema.ForOptions{})
	if err != nil {
		return nil, errors.Errorf("could not build question schema: %v", err)
	}

	if answer, ok := questionSchema.Properties["correct_answer"]; ok {
		answer.Enum = []any{"A", "B", "C"}
	}

	g := &OpenAI{
		client:         &client,
		model:          config.Model,
		topicsSchema:   topicsSchema,
		questionSchema: questionSchema,
	}

	if config.Logger != nil {
		g.log = config.Logger
	} else {
		g.log = noopLogger{}
	}

	return g, nil
}

func (g *OpenAI) Topics(ctx context.Context) ([3]string, error) {
	var topics [3]string

	picked := make([]string, 0, 3)
	for _, i := range rand.Perm(len(vibes))[:3] {
		picked = append(picked, vibes[i])
	}

	g.log.Debugf("Mixing vibes %v", picked)

	seed := uuid.NewString()
	prompt := fmt.Sprintf("Random seed: %s.\n"+
		"We are playing a general knowledge trivia game. Vibes to mix: %s.\n"+
		"Generate 3 distinct, interesting topics related to these vibes for the player to choose from. "+
		"The topics should change whenever the random seed changes. "+
		"Each topic must be very short (1-3 words), for example 'World History', 'Python Coding' or 'Space Science'.",
		seed, strings.Join(picked, ", "))

	var reply topicsReply
	if err := g.structured(ctx, prompt, topicsTemperature, "topics", "three topic choices", g.topicsSchema, &reply); err != nil {
		return topics, err
	}

	topics = [3]string{strings.TrimSpace(reply.A), strings.TrimSpace(reply.B), strings.TrimSpace(reply.C)}
	if err := ValidateTopics(topics); err != nil {
		return topics, err
	}

	return topics, nil
}

func (g *OpenAI) Question(ctx context.Context, topic string, history []string) (*Question, error) {
	var previous strings.Builder
	for _, q := range history {
		previous.WriteString("- ")
		previous.WriteString(q)
		previous.WriteString("\n")
	}

	prompt := fmt.Sprintf("Generate a single multiple-choice trivia question about '%s'.\n"+
		"Avoid these previously asked questions:\n%s\n"+
		"Strictly follow these rules:\n"+
		"1. Provide exactly 3 options (A, B, C).\n"+
		"2. Do NOT add option D.\n"+
		"3. The correct_answer must be exactly 'A', 'B', or 'C'.\n"+
		"4. Keep the JSON valid.", topic, previous.String())

	var reply questionReply
	if err := g.structured(ctx, prompt, questionTemperature, "question", "one multiple-choice question", g.questionSchema, &reply); err != nil {
		return nil, err
	}

	answer, _ := round.ParseKey(reply.CorrectAnswer)

	q := &Question{
		Text:    strings.TrimSpace(reply.QuestionText),
		Options: round.Options{reply.OptionA, reply.OptionB, reply.OptionC},
		Answer:  answer,
	}

	if err := q.Validate(); err != nil {
		return nil, err
	}

	return q, nil
}

func (g *OpenAI) Feedback(ctx context.Context, correct bool, chosen, answer round.Key) (string, error) {
	style := roastStyles[rand.IntN(len(roastStyles))]
	seed := uuid.NewString()

	g.log.Debugf("Roast style %q", style)

	var prompt string
	if correct {
		prompt = fmt.Sprintf("Random seed: %s. The player answered correctly. "+
			"Give them a short, enthusiastic compliment %s (max 1 sentence).", seed, style)
	} else {
		prompt = fmt.Sprintf("Random seed: %s. The player answered %s but the answer was %s. "+
			"Give them a short, sarcastic roast %s (max 1 sentence). "+
			"For example: 'HAHA! Wrong! Even a toddler knows that!'", seed, chosen, answer, style)
	}

	content, err := g.complete(ctx, g.params(prompt, feedbackTemperature))
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(content)
	if text == "" {
		return "", errors.New("empty feedback")
	}

	return text, nil
}

func (g *OpenAI) params(prompt string, temperature float64) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       g.model,
		Temperature: param.NewOpt(temperature),
	}
}

func (g *OpenAI) structured(ctx context.Context, prompt string, temperature float64, name, description string, schema *jsonschema.Schema, v any) error {
	params := g.params(prompt, temperature)
	params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
			JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:        name,
				Description: param.NewOpt(description),
				Schema:      schema,
				Strict:      param.NewOpt(true),
			},
		},
	}

	content, err := g.complete(ctx, params)
	if err != nil {
		return err
	}

	if err := unmarshalJSON([]byte(content), v); err != nil {
		return errors.Errorf("could not decode %v reply %q: %v", name, content, err)
	}

	return nil
}

func (g *OpenAI) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Errorf("could not complete chat: %v", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}

	choice := resp.Choices[0]
	if choice.Message.Refusal != "" {
		return "", errors.Errorf("blocked: %s", choice.Message.Refusal)
	}

	return choice.Message.Content, nil
}

// unmarshalJSON decodes data into v and retries once with a repaired
// document if data is not valid JSON.
func unmarshalJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	if _, ok := err.(*json.SyntaxError); !ok {
		return err
	}

	fixed, rerr := jsonrepair.JSONRepair(string(data))
	if rerr != nil {
		return err
	}

	return json.Unmarshal([]byte(fixed), v)
}
