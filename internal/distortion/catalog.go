// Package distortion detects cognitive distortion patterns in journal text.
package distortion

import (
	"regexp"
	"strings"

	"github.com/rcliao/anger-log/internal/model"
)

// CatalogVersion identifies the rule set shipped by DefaultCatalog.
const CatalogVersion = "1"

// Rule reports whether case-folded text contains its pattern.
type Rule interface {
	Match(text string) bool
	String() string
}

// Substring matches a literal token anywhere in the text.
type Substring string

func (s Substring) Match(text string) bool { return strings.Contains(text, string(s)) }
func (s Substring) String() string         { return string(s) }

// Pattern matches a regular expression anywhere in the text.
type Pattern struct {
	re *regexp.Regexp
}

// MustPattern compiles expr, panicking on a malformed expression.
func MustPattern(expr string) Pattern {
	return Pattern{re: regexp.MustCompile(expr)}
}

func (p Pattern) Match(text string) bool { return p.re.MatchString(text) }
func (p Pattern) String() string         { return p.re.String() }

// Entry is one category of the catalog.
type Entry struct {
	Type        model.DistortionType
	Description string
	Suggestion  string
	Rules       []Rule
}

// Finding builds the finding reported when the entry matches.
func (e Entry) Finding() model.Finding {
	return model.Finding{Type: e.Type, Description: e.Description, Suggestion: e.Suggestion}
}

// Catalog is an ordered, read-only set of category entries.
type Catalog struct {
	entries []Entry
}

// NewCatalog builds a catalog. Entries are evaluated in the given order.
// The catalog keeps its own copy of entries and their rules.
func NewCatalog(entries ...Entry) *Catalog {
	return &Catalog{entries: copyEntries(entries)}
}

// Entries returns a copy of the catalog entries in evaluation order.
// Changing the copy never affects classification.
func (c *Catalog) Entries() []Entry {
	return copyEntries(c.entries)
}

func copyEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Rules = append([]Rule(nil), e.Rules...)
		out[i] = e
	}
	return out
}

// Lookup returns the entry for t.
func (c *Catalog) Lookup(t model.DistortionType) (Entry, bool) {
	for _, e := range c.entries {
		if e.Type == t {
			return e, true
		}
	}
	return Entry{}, false
}

var defaultCatalog = NewCatalog(
	Entry{
		Type:        model.Labeling,
		Description: "相手や自分に否定的なレッテルを貼っています。",
		Suggestion:  "具体的な行動や事実に焦点を当てましょう。",
		Rules: []Rule{
			Substring("あいつ"), Substring("やつ"), Substring("バカ"), Substring("ダメ"),
			Substring("無能"), Substring("最悪"), Substring("くそ"), Substring("うざい"),
			Substring("だめな人"), Substring("ひどい人"), Substring("最低"),
		},
	},
	Entry{
		Type:        model.MindReading,
		Description: "相手の気持ちや考えを推測で決めつけています。",
		Suggestion:  "確認せずに推測は控え、事実に基づいて判断しましょう。",
		Rules: []Rule{
			MustPattern(`どうせ.*考えて`), MustPattern(`きっと.*思っている`),
			Substring("に違いない"), MustPattern(`絶対.*思っている`),
			MustPattern(`どうせ.*ない`), Substring("はず"), Substring("間違いなく"),
		},
	},
	Entry{
		Type:        model.AllOrNothing,
		Description: "物事を極端に捉える白黒思考が見られます。",
		Suggestion:  "グレーゾーンや中間的な視点を探してみましょう。",
		Rules: []Rule{
			Substring("いつも"), Substring("必ず"), Substring("絶対"), Substring("全然"),
			Substring("まったく"), Substring("完全に"), Substring("全部"),
			Substring("一度も"), Substring("決して"), Substring("すべて"),
		},
	},
	Entry{
		Type:        model.Personalization,
		Description: "すべてを自分のせいにする傾向があります。",
		Suggestion:  "他の要因や外部環境の影響も考慮してみましょう。",
		Rules: []Rule{
			Substring("私のせい"), Substring("自分が悪い"), MustPattern(`私が.*だから`),
			Substring("自分の責任"), Substring("私のミス"), Substring("自分が原因"),
		},
	},
	Entry{
		Type:        model.Externalization,
		Description: "すべてを外部要因のせいにする傾向があります。",
		Suggestion:  "自分でコントロールできる部分も探してみましょう。",
		Rules: []Rule{
			Substring("相手が悪い"), Substring("環境のせい"), Substring("運が悪い"),
			Substring("世の中が"), Substring("社会が"), Substring("他人が"),
		},
	},
)

// DefaultCatalog returns the built-in five-category catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}
