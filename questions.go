package main

import (
	"embed"
	"encoding/json"
	"fmt"
	mrand "math/rand"
	"path"
	"strings"
)

//go:embed questions/*.json
var questionFiles embed.FS

// Question is one quiz entry: ordered options and the index of the correct
// one. The correct index never leaves the server before the reveal.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// QuestionBank serves draws from the embedded per-topic question pools.
type QuestionBank struct {
	topics map[string][]Question
}

func loadQuestionBank() (*QuestionBank, error) {
	entries, err := questionFiles.ReadDir("questions")
	if err != nil {
		return nil, fmt.Errorf("reading question files: %w", err)
	}

	bank := &QuestionBank{topics: make(map[string][]Question)}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := questionFiles.ReadFile(path.Join("questions", name))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var questions []Question
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}

		for _, q := range questions {
			if len(q.Options) < 2 || q.Correct < 0 || q.Correct >= len(q.Options) {
				return nil, fmt.Errorf("%s: question %q has invalid options", name, q.ID)
			}
		}

		bank.topics[strings.TrimSuffix(name, ".json")] = questions
	}

	if len(bank.topics["general"]) == 0 {
		return nil, fmt.Errorf("question bank is missing the general pool")
	}

	return bank, nil
}

// Draw returns exactly count questions for a topic, shuffled; unknown topics
// fall back to the general pool, and short pools are padded by cycling.
func (qb *QuestionBank) Draw(topic string, count int, rng *mrand.Rand) []Question {
	pool := qb.topics[strings.ToLower(strings.TrimSpace(topic))]
	if len(pool) == 0 {
		pool = qb.topics["general"]
	}

	shuffled := make([]Question, len(pool))
	copy(shuffled, pool)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	out := make([]Question, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, shuffled[i%len(shuffled)])
	}
	return out
}
