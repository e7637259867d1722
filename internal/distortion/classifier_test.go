package distortion

import (
	"reflect"
	"sync"
	"testing"

	"github.com/rcliao/anger-log/internal/model"
)

func types(fs []model.Finding) []model.DistortionType {
	out := make([]model.DistortionType, len(fs))
	for i, f := range fs {
		out[i] = f.Type
	}
	return out
}

func TestClassify_SingleCategory(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.DistortionType
	}{
		{"labeling", "あいつは本当にバカだ", model.Labeling},
		{"mind reading", "彼はどうせ私のことを嫌っているに違いない", model.MindReading},
		{"all or nothing", "いつも失敗ばかりだ", model.AllOrNothing},
		{"personalization", "このプロジェクトが遅れたのは私のせいです", model.Personalization},
		{"externalization", "私が成功しないのは環境のせいだ", model.Externalization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text, "", "")
			if len(got) != 1 {
				t.Fatalf("expected 1 finding, got %d: %v", len(got), types(got))
			}
			if got[0].Type != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got[0].Type)
			}
			if got[0].Description == "" || got[0].Suggestion == "" {
				t.Error("expected description and suggestion to be set")
			}
		})
	}
}

func TestClassify_MultipleCategories(t *testing.T) {
	got := types(Classify("いつも私のせいでダメになる", "", ""))
	if len(got) < 2 {
		t.Fatalf("expected at least 2 findings, got %v", got)
	}

	want := []model.DistortionType{model.Labeling, model.AllOrNothing, model.Personalization}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v in catalog order, got %v", want, got)
	}
}

func TestClassify_NoMatch(t *testing.T) {
	for _, text := range []string{"", "   ", "今日は天気が良いので散歩に行こう", "The meeting ran long."} {
		got := Classify(text, "", "")
		if got == nil {
			t.Errorf("Classify(%q) returned nil, want empty slice", text)
		}
		if len(got) != 0 {
			t.Errorf("Classify(%q) = %v, want none", text, types(got))
		}
	}
}

func TestClassify_UsesAllFields(t *testing.T) {
	got := Classify("", "上司に怒られた", "あいつはいつもそうだ")
	want := []model.DistortionType{model.Labeling, model.AllOrNothing}
	if !reflect.DeepEqual(types(got), want) {
		t.Errorf("expected %v, got %v", want, types(got))
	}

	got = Classify("", "社会が悪い", "")
	if len(got) != 1 || got[0].Type != model.Externalization {
		t.Errorf("expected externalization from situation, got %v", types(got))
	}
}

func TestClassify_OneFindingPerCategory(t *testing.T) {
	// Every labeling rule, several times over.
	text := "あいつ やつ バカ ダメ 無能 最悪 くそ うざい 最低 バカ バカ"
	got := Classify(text, text, text)
	if len(got) != 1 {
		t.Fatalf("expected 1 finding, got %v", types(got))
	}
}

func TestClassify_FieldsJoinedWithSpace(t *testing.T) {
	// "私が" in thoughts and "だから" in evidence still form one pattern
	// across the joined text.
	got := Classify("私が", "", "だから")
	if len(got) != 1 || got[0].Type != model.Personalization {
		t.Errorf("expected personalization across fields, got %v", types(got))
	}
}

func TestClassify_CaseFolded(t *testing.T) {
	c := NewClassifier(NewCatalog(Entry{
		Type:  model.Labeling,
		Rules: []Rule{Substring("idiot"), MustPattern(`always.*wrong`)},
	}))

	if got := c.Classify("He is an IDIOT", "", ""); len(got) != 1 {
		t.Errorf("expected upper-case input to match, got %v", types(got))
	}
	if got := c.Classify("", "", "ALWAYS Wrong"); len(got) != 1 {
		t.Errorf("expected pattern to match folded text, got %v", types(got))
	}
}

func TestClassify_Deterministic(t *testing.T) {
	thoughts, situation, evidence := "どうせ誰も分かってくれない", "全部あいつのせい", "社会が悪い"
	first := Classify(thoughts, situation, evidence)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Classify(thoughts, situation, evidence); !reflect.DeepEqual(got, first) {
				t.Errorf("non-deterministic result: %v vs %v", types(got), types(first))
			}
		}()
	}
	wg.Wait()
}

func TestClassify_ResultsAreIndependent(t *testing.T) {
	a := Classify("バカ", "", "")
	a[0].Description = "mutated"

	b := Classify("バカ", "", "")
	if b[0].Description == "mutated" {
		t.Error("mutating a result leaked into the catalog")
	}
}

func TestDefaultCatalog_Order(t *testing.T) {
	entries := DefaultCatalog().Entries()
	if len(entries) != len(model.DistortionTypes) {
		t.Fatalf("expected %d entries, got %d", len(model.DistortionTypes), len(entries))
	}
	for i, e := range entries {
		if e.Type != model.DistortionTypes[i] {
			t.Errorf("entry %d: expected %q, got %q", i, model.DistortionTypes[i], e.Type)
		}
		if len(e.Rules) == 0 {
			t.Errorf("entry %q has no rules", e.Type)
		}
	}

	if _, ok := DefaultCatalog().Lookup(model.MindReading); !ok {
		t.Error("expected mind_reading lookup to succeed")
	}
	if _, ok := DefaultCatalog().Lookup("catastrophizing"); ok {
		t.Error("expected unknown lookup to fail")
	}
}

func TestNewCatalog_AddCategory(t *testing.T) {
	entries := append(DefaultCatalog().Entries(), Entry{
		Type:        "catastrophizing",
		Description: "d",
		Suggestion:  "s",
		Rules:       []Rule{Substring("終わりだ")},
	})
	c := NewClassifier(NewCatalog(entries...))

	got := c.Classify("もう人生終わりだ", "", "")
	if len(got) != 1 || got[0].Type != "catastrophizing" {
		t.Errorf("expected new category to be detected, got %v", types(got))
	}
}

func TestCatalog_EntriesCopyIsDetached(t *testing.T) {
	text := "あいつは本当にバカだ"
	before := Classify(text, "", "")

	entries := DefaultCatalog().Entries()
	for i := range entries {
		for j := range entries[i].Rules {
			entries[i].Rules[j] = Substring("never-matches")
		}
		entries[i].Rules = nil
	}

	after := Classify(text, "", "")
	if !reflect.DeepEqual(before, after) {
		t.Errorf("classification changed after editing Entries copy: before %v, after %v", types(before), types(after))
	}
	if len(after) != 1 || after[0].Type != model.Labeling {
		t.Errorf("expected [labeling], got %v", types(after))
	}
}

func TestNewCatalog_DoesNotAliasCallerRules(t *testing.T) {
	rules := []Rule{Substring("alpha")}
	c := NewCatalog(Entry{Type: model.Labeling, Rules: rules})
	rules[0] = Substring("beta")

	cl := NewClassifier(c)
	if got := cl.Classify("alpha", "", ""); len(got) != 1 {
		t.Errorf("expected catalog to keep its own rules, got %v", types(got))
	}
	if got := cl.Classify("beta", "", ""); len(got) != 0 {
		t.Errorf("expected caller edit to be ignored, got %v", types(got))
	}
}
