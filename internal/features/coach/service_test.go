package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"serotonyl.ru/ecotrack/internal/common"
	"serotonyl.ru/ecotrack/internal/scoring"
)

type fakeGenerator struct {
	text string
	err  error
	last Request
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (string, error) {
	f.last = req
	return f.text, f.err
}

type fakeStreamer struct {
	fakeGenerator
	chunks []string
}

func (f *fakeStreamer) Stream(_ context.Context, req Request, onChunk func(string)) (string, error) {
	f.last = req
	for _, c := range f.chunks {
		onChunk(c)
	}
	return strings.Join(f.chunks, ""), nil
}

var week = scoring.WeeklySummary{
	Breakdown:     scoring.Breakdown{EcoScore: 72},
	WaterSaved:    300,
	CarbonReduced: 12.5,
	DaysActive:    4,
	Activities:    []string{scoring.ActivityWaterTracking},
}

func TestDisabledCoachFallsBack(t *testing.T) {
	ctx := context.Background()
	s := NewService(nil, 0)

	if got, err := s.Suggestions(ctx, week); err != nil || got != FallbackSuggestions {
		t.Errorf("Suggestions = %q, %v", got, err)
	}
	if got, err := s.Motivation(ctx, week); err != nil || got != FallbackMotivation {
		t.Errorf("Motivation = %q, %v", got, err)
	}
	if got, err := s.WeeklyAnalysis(ctx, week, scoring.TrendStable); err != nil || got != FallbackAnalysis {
		t.Errorf("WeeklyAnalysis = %q, %v", got, err)
	}
	if _, err := s.Ask(ctx, week, "hi", nil); !errors.Is(err, common.ErrCoachDisabled) {
		t.Errorf("Ask err = %v, want ErrCoachDisabled", err)
	}
}

func TestPromptsCarrySummary(t *testing.T) {
	gen := &fakeGenerator{text: "  совет  "}
	s := NewService(gen, 0)

	got, err := s.Suggestions(context.Background(), week)
	if err != nil || got != "совет" {
		t.Fatalf("Suggestions = %q, %v", got, err)
	}
	for _, want := range []string{"72/100", "300 л", "12.50 кг", scoring.ActivityWaterTracking} {
		if !strings.Contains(gen.last.Prompt, want) {
			t.Errorf("prompt misses %q:\n%s", want, gen.last.Prompt)
		}
	}
	if !strings.Contains(gen.last.System, "EcoTwin") {
		t.Errorf("system prompt = %q", gen.last.System)
	}

	if _, err := s.WeeklyAnalysis(context.Background(), week, scoring.TrendImproving); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(gen.last.Prompt, "4/7") || !strings.Contains(gen.last.Prompt, string(scoring.TrendImproving)) {
		t.Errorf("analysis prompt = %s", gen.last.Prompt)
	}
}

func TestEmptyAndFailedCompletions(t *testing.T) {
	ctx := context.Background()

	empty := NewService(&fakeGenerator{err: common.ErrEmptyCompletion}, 0)
	if got, err := empty.Motivation(ctx, week); err != nil || got != FallbackMotivation {
		t.Errorf("empty completion = %q, %v", got, err)
	}
	blank := NewService(&fakeGenerator{text: "   "}, 0)
	if got, _ := blank.Suggestions(ctx, week); got != FallbackSuggestions {
		t.Errorf("blank completion = %q", got)
	}

	boom := errors.New("boom")
	failing := NewService(&fakeGenerator{err: boom}, 0)
	if _, err := failing.Suggestions(ctx, week); !errors.Is(err, boom) {
		t.Errorf("Suggestions err = %v, want boom", err)
	}
	got, err := failing.Ask(ctx, week, "вопрос", nil)
	if !errors.Is(err, boom) || got != ConnectionTrouble {
		t.Errorf("Ask = %q, %v", got, err)
	}
}

func TestAskStreams(t *testing.T) {
	gen := &fakeStreamer{chunks: []string{"Экономьте ", "воду"}}
	s := NewService(gen, 0)

	var got []string
	answer, err := s.Ask(context.Background(), week, "как?", func(c string) { got = append(got, c) })
	if err != nil {
		t.Fatal(err)
	}
	if answer != "Экономьте воду" || len(got) != 2 {
		t.Fatalf("Ask = %q, chunks %v", answer, got)
	}
	if gen.last.Prompt != "как?" || !strings.Contains(gen.last.System, "Эко-балл: 72") {
		t.Fatalf("chat request = %+v", gen.last)
	}

	if _, err := s.Ask(context.Background(), week, "  ", nil); !errors.Is(err, common.ErrEmptyPost) {
		t.Fatalf("empty question err = %v", err)
	}
}
