package corpus

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Augmenter asks an OpenAI chat model for additional Georgian vocabulary to
// merge into a built corpus. Useful when the Wikipedia scrape misses everyday
// words (food, household items, dialogue).
type Augmenter struct {
	apiKey string
	client *openai.Client
}

// NewAugmenter creates an augmenter instance.
func NewAugmenter(apiKey string) *Augmenter {
	return &Augmenter{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// augmentFrequency is the floor frequency assigned to suggested words so they
// stay rare relative to scraped vocabulary.
const augmentFrequency = 2

// SuggestWords requests up to count common Georgian words for a topic.
// Responses are filtered to pure Mkhedruli words of corpus length bounds;
// anything else the model returns is dropped.
func (a *Augmenter) SuggestWords(ctx context.Context, topic string, count int) ([]Word, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}

	req := openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(
					"List %d common Georgian words about %q, written in Georgian script. "+
						"Respond with one word per line, nothing else.", count, topic),
			},
		},
		MaxTokens:   1000,
		Temperature: 0.3,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no suggestions returned")
	}

	var words []Word
	for _, line := range strings.Split(resp.Choices[0].Message.Content, "\n") {
		word := strings.TrimSpace(line)
		word = strings.TrimLeft(word, "-•*0123456789. ")
		if !isGeorgianWord(word) {
			continue
		}
		words = append(words, Word{Text: word, Frequency: augmentFrequency})
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no usable Georgian words in model response")
	}
	return words, nil
}

// isGeorgianWord reports whether s is a pure Mkhedruli word within corpus
// length bounds.
func isGeorgianWord(s string) bool {
	runes := []rune(s)
	if len(runes) < minWordLength || len(runes) > maxWordLength {
		return false
	}
	for _, r := range runes {
		if r < 'ა' || r > 'ჰ' {
			return false
		}
	}
	return true
}
