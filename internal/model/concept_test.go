package model

import (
	"reflect"
	"testing"
)

func TestConceptCloneIsDeep(t *testing.T) {
	scope := "streaks"
	c := Concept{
		ID:                    "c1",
		MVPScope:              &scope,
		Tasks:                 []ConceptTask{{ID: "t1", Status: ConceptTaskTodo}},
		EnabledFeatures:       []EnabledFeature{{ID: "f1"}},
		Links:                 []ConceptLink{{URL: "https://example.com"}},
		ValidationCheckpoints: []string{"a"},
		KeyQuestionAnswers:    map[string]string{"q": "a"},
	}

	cp := c.Clone()
	if !reflect.DeepEqual(cp, c) {
		t.Fatalf("Clone() = %+v, want equal to original", cp)
	}

	cp.Tasks[0].Status = ConceptTaskDone
	cp.EnabledFeatures[0].ID = "x"
	cp.Links[0].URL = "x"
	cp.ValidationCheckpoints[0] = "x"
	cp.KeyQuestionAnswers["q"] = "x"
	*cp.MVPScope = "x"

	if c.Tasks[0].Status != ConceptTaskTodo || c.EnabledFeatures[0].ID != "f1" ||
		c.Links[0].URL != "https://example.com" || c.ValidationCheckpoints[0] != "a" ||
		c.KeyQuestionAnswers["q"] != "a" || *c.MVPScope != "streaks" {
		t.Fatalf("original changed through clone: %+v", c)
	}
}

func TestConceptCloneKeepsNil(t *testing.T) {
	cp := Concept{}.Clone()
	if cp.Tasks != nil || cp.KeyQuestionAnswers != nil || cp.TargetUser != nil {
		t.Fatalf("Clone() of zero concept = %+v", cp)
	}
}
