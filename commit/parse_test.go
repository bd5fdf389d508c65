package commit

import (
	"testing"

	"github.com/jeffrom/shipit/model"
)

func TestParse(t *testing.T) {
	tcs := []struct {
		subject     string
		typ         string
		kind        CommitType
		scope       string
		description string
	}{
		{subject: "fix: x", typ: "fix", kind: CommitFix, description: "x"},
		{subject: "feat(react): add hook", typ: "feat", kind: CommitFeat, scope: "react", description: "add hook"},
		{subject: "Feat: shouting", typ: "feat", kind: CommitFeat, description: "shouting"},
		{subject: "examples: add todo app", typ: "examples", kind: CommitExamples, description: "add todo app"},
		{subject: "test: more coverage", typ: "test", kind: CommitUnknown, description: "more coverage"},
		{subject: "fix:missing space", kind: CommitOther},
		{subject: "just a subject", kind: CommitOther},
	}

	for _, tc := range tcs {
		t.Run(tc.subject, func(t *testing.T) {
			ac := Parse(&model.Commit{Subject: tc.subject})
			if ac.Type != tc.typ {
				t.Errorf("expected type %q, got %q", tc.typ, ac.Type)
			}
			if ac.Kind != tc.kind {
				t.Errorf("expected kind %d, got %d", tc.kind, ac.Kind)
			}
			if ac.Scope != tc.scope {
				t.Errorf("expected scope %q, got %q", tc.scope, ac.Scope)
			}
			if tc.description != "" && ac.Description != tc.description {
				t.Errorf("expected description %q, got %q", tc.description, ac.Description)
			}
		})
	}
}

func TestSummaryFallback(t *testing.T) {
	ac := Parse(&model.Commit{Subject: "just a subject"})
	if ac.Summary() != "just a subject" {
		t.Fatalf("expected subject fallback, got %q", ac.Summary())
	}
}

func TestExcluded(t *testing.T) {
	tcs := []struct {
		subject string
		expect  bool
	}{
		{"Merge branch 'main' into beta", true},
		{"release: v1.2.3", true},
		{"release: notes", false},
		{"fix: merge branch handling", false},
	}
	for _, tc := range tcs {
		if got := Excluded(&model.Commit{Subject: tc.subject}); got != tc.expect {
			t.Errorf("%q: expected %t, got %t", tc.subject, tc.expect, got)
		}
	}
}

func TestReleaseMessage(t *testing.T) {
	if msg := ReleaseMessage("1.3.0"); msg != "release: v1.3.0" {
		t.Fatalf("unexpected release message %q", msg)
	}
	if !Excluded(&model.Commit{Subject: ReleaseMessage("v1.3.0")}) {
		t.Fatal("expected release commits to be excluded")
	}
}
