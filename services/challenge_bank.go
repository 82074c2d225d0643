package services

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"strings"
	"sync"

	"word-duel-service/models"
	"word-duel-service/utils"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// ChallengeBank holds the word challenges rounds are dealt from. The
// catalog is a JSON document in object storage, refreshed at startup; a
// compiled-in starter set keeps duels playable when the bucket is
// unreachable.
type ChallengeBank struct {
	mu         sync.RWMutex
	challenges []models.WordChallenge
}

func NewChallengeBank() *ChallengeBank {
	return &ChallengeBank{challenges: starterChallenges()}
}

// LoadFromObjectStore replaces the bank with the catalog stored under key.
// Failures are logged and leave the current set in place.
func (b *ChallengeBank) LoadFromObjectStore(ctx context.Context, key string) error {
	raw, err := utils.FetchObject(ctx, key)
	if err != nil {
		log.Printf("[ChallengeBank] fetch %q failed, keeping %d built-in challenges: %v", key, b.Size(), err)
		return err
	}

	var doc struct {
		Challenges []models.WordChallenge `json:"challenges"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("[ChallengeBank] bad catalog document %q: %v", key, err)
		return err
	}

	valid := doc.Challenges[:0]
	for _, c := range doc.Challenges {
		c.Word = NormalizeWord(c.Word)
		if c.Word == "" || len(c.Definitions) == 0 || len(c.Sentences) == 0 {
			continue
		}
		if c.CorrectDefinition < 0 || c.CorrectDefinition >= len(c.Definitions) {
			continue
		}
		if c.CorrectSentence < 0 || c.CorrectSentence >= len(c.Sentences) {
			continue
		}
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		log.Printf("[ChallengeBank] catalog %q contained no usable challenges, keeping current set", key)
		return nil
	}

	b.mu.Lock()
	b.challenges = valid
	b.mu.Unlock()
	log.Printf("✅ Challenge bank loaded: %d challenges from %q", len(valid), key)
	return nil
}

func (b *ChallengeBank) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.challenges)
}

// Pick returns a random challenge, avoiding excludeWord when another
// choice exists so consecutive rounds don't repeat a word.
func (b *ChallengeBank) Pick(excludeWord string) *models.WordChallenge {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.challenges) == 0 {
		return nil
	}
	for attempts := 0; attempts < 5; attempts++ {
		c := b.challenges[rand.Intn(len(b.challenges))]
		if len(b.challenges) > 1 && c.Word == excludeWord {
			continue
		}
		picked := c
		return &picked
	}
	picked := b.challenges[rand.Intn(len(b.challenges))]
	return &picked
}

// NormalizeWord brings a challenge word to canonical NFC form so that
// composed and decomposed diacritics compare equal.
func NormalizeWord(w string) string {
	return norm.NFC.String(strings.TrimSpace(w))
}

// FoldWord lowercases and ASCII-folds a word ("Süß" → "suss") for
// accent-insensitive letter reveals and comparisons.
func FoldWord(w string) string {
	return strings.ToLower(unidecode.Unidecode(NormalizeWord(w)))
}

// Built-in vocabulary so the duel works out of the box
func starterChallenges() []models.WordChallenge {
	return []models.WordChallenge{
		{
			Word: "ephemeral",
			Definitions: []string{
				"lasting for a very short time",
				"extremely large in size",
				"relating to the study of insects",
			},
			Sentences: []string{
				"The sculpture was carved from a single block of marble.",
				"Fame on social media is often ephemeral, gone within a week.",
				"He collected stamps from every continent.",
			},
			CorrectDefinition: 0,
			CorrectSentence:   1,
		},
		{
			Word: "ubiquitous",
			Definitions: []string{
				"hidden from view",
				"present or found everywhere",
				"capable of holding a grudge",
			},
			Sentences: []string{
				"Smartphones have become ubiquitous in modern classrooms.",
				"She whispered so quietly that nobody heard.",
				"The bridge collapsed during the storm.",
			},
			CorrectDefinition: 1,
			CorrectSentence:   0,
		},
		{
			Word: "façade",
			Definitions: []string{
				"the principal front of a building, or an outward appearance",
				"a narrow passage between mountains",
				"a formal written agreement",
			},
			Sentences: []string{
				"They planted tomatoes behind the shed.",
				"The novel ends with an unexpected twist.",
				"Behind his cheerful façade he was deeply worried.",
			},
			CorrectDefinition: 0,
			CorrectSentence:   2,
		},
		{
			Word: "naïve",
			Definitions: []string{
				"showing a lack of experience or judgement",
				"covered in a thin layer of gold",
				"relating to ocean currents",
			},
			Sentences: []string{
				"It was naïve of him to believe the offer had no strings attached.",
				"The orchestra tuned their instruments before the concert.",
				"Rainfall doubled over the past decade.",
			},
			CorrectDefinition: 0,
			CorrectSentence:   0,
		},
		{
			Word: "candid",
			Definitions: []string{
				"truthful and straightforward",
				"shaped like a candle",
				"easily broken or damaged",
			},
			Sentences: []string{
				"The cat slept through the entire thunderstorm.",
				"She gave a candid account of what went wrong in the project.",
				"He painted the fence a bright shade of blue.",
			},
			CorrectDefinition: 0,
			CorrectSentence:   1,
		},
		{
			Word: "resilient",
			Definitions: []string{
				"unable to be seen through",
				"able to recover quickly from difficulties",
				"having a sweet or pleasant smell",
			},
			Sentences: []string{
				"The recipe calls for two cups of flour.",
				"The library closes early on Sundays.",
				"Children are remarkably resilient and adapt to change quickly.",
			},
			CorrectDefinition: 1,
			CorrectSentence:   2,
		},
	}
}
