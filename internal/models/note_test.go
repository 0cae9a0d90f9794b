package models

import (
	"reflect"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
)

func validPayload() *NotePayload {
	return &NotePayload{
		Title:     "Weekly review",
		Content:   "# Review\nWent well.",
		Summary:   "A short weekly review.",
		KeyPoints: []string{"shipped the thing"},
		Tags:      []string{"work"},
		Sentiment: Sentiment{Score: 0.5, Label: SentimentPositive},
	}
}

func TestValidate_ValidPayload(t *testing.T) {
	if err := validPayload().Validate(); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidate_RequiredFields(t *testing.T) {
	p := &NotePayload{}
	err := p.Validate()
	ve := apperr.AsValidation(err)
	if ve == nil {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"title", "content", "summary", "sentiment"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Errorf("missing violation for %q in %v", field, ve.Fields)
		}
	}
}

func TestValidate_EnumeratesEveryViolation(t *testing.T) {
	p := validPayload()
	p.Tags = make([]string, 51)
	for i := range p.Tags {
		p.Tags[i] = "tag"
	}
	p.Sentiment.Score = 1.5

	err := p.Validate()
	ve := apperr.AsValidation(err)
	if ve == nil {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["tags"]; !ok {
		t.Errorf("tag count violation not reported: %v", ve.Fields)
	}
	if _, ok := ve.Fields["sentiment"]; !ok {
		t.Errorf("sentiment score violation not reported: %v", ve.Fields)
	}
}

func TestValidate_TagCharset(t *testing.T) {
	cases := []struct {
		tag  string
		want bool
	}{
		{"work", true},
		{"project-x", true},
		{"under_score", true},
		{"two words", true},
		{"Tag123", true},
		{"nope@here", false},
		{"emoji✨", false},
		{"semi;colon", false},
	}
	for _, tc := range cases {
		p := validPayload()
		p.Tags = []string{tc.tag}
		err := p.Validate()
		if tc.want && err != nil {
			t.Errorf("tag %q rejected: %v", tc.tag, err)
		}
		if !tc.want && err == nil {
			t.Errorf("tag %q accepted, want rejection", tc.tag)
		}
	}
}

func TestValidate_SentimentBounds(t *testing.T) {
	for _, score := range []float64{-1, -0.5, 0, 1} {
		p := validPayload()
		p.Sentiment.Score = score
		if err := p.Validate(); err != nil {
			t.Errorf("score %v rejected: %v", score, err)
		}
	}
	for _, score := range []float64{-1.01, 1.5, 2} {
		p := validPayload()
		p.Sentiment.Score = score
		if p.Validate() == nil {
			t.Errorf("score %v accepted, want rejection", score)
		}
	}
}

func TestValidate_SentimentLabelEnum(t *testing.T) {
	p := validPayload()
	p.Sentiment.Label = "ecstatic"
	if p.Validate() == nil {
		t.Error("unknown label accepted")
	}
}

func TestValidate_NoScoreLabelCrossCheck(t *testing.T) {
	// Score and label are independently user-asserted; a positive label
	// with a negative score is allowed.
	p := validPayload()
	p.Sentiment = Sentiment{Score: -0.9, Label: SentimentPositive}
	if err := p.Validate(); err != nil {
		t.Fatalf("mismatched score/label rejected: %v", err)
	}
}

func TestValidate_KeyPointLimits(t *testing.T) {
	p := validPayload()
	p.KeyPoints = make([]string, 21)
	for i := range p.KeyPoints {
		p.KeyPoints[i] = "point"
	}
	if p.Validate() == nil {
		t.Error("21 key points accepted")
	}
}

func TestNormalize_Tags(t *testing.T) {
	p := validPayload()
	p.Tags = []string{"  Work ", "work", "URGENT"}
	p.Normalize()
	want := []string{"work", "urgent"}
	if !reflect.DeepEqual(p.Tags, want) {
		t.Errorf("tags = %v, want %v", p.Tags, want)
	}
}

func TestNormalize_DropsEmptyTags(t *testing.T) {
	p := validPayload()
	p.Tags = []string{"   ", "keep", ""}
	p.Normalize()
	if !reflect.DeepEqual(p.Tags, []string{"keep"}) {
		t.Errorf("tags = %v", p.Tags)
	}
}

func TestNormalize_KeyPoints(t *testing.T) {
	p := validPayload()
	p.KeyPoints = []string{"  first ", "", "second", "   "}
	p.Normalize()
	want := []string{"first", "second"}
	if !reflect.DeepEqual(p.KeyPoints, want) {
		t.Errorf("keyPoints = %v, want %v", p.KeyPoints, want)
	}
}
