package keyword

import (
	"reflect"
	"strings"
	"testing"
)

func TestCanon(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Radiomics", "radiomics"},
		{"hyphen folds to space", "Machine-Learning", "machine learning"},
		{"underscore folds to space", "machine_learning", "machine learning"},
		{"en dash", "machine–learning", "machine learning"},
		{"em dash", "machine—learning", "machine learning"},
		{"punctuation stripped", "p53, (mutant)", "p53 mutant"},
		{"multi space collapsed", "deep    learning", "deep learning"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unicode letters kept", "naïve Bayes", "naïve bayes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Canon(tt.input); got != tt.want {
				t.Errorf("Canon(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCanonIdempotent(t *testing.T) {
	inputs := []string{"Machine-Learning", "Deep   Learning!", "MRI–guided_biopsy", "", "  x  "}
	for _, s := range inputs {
		once := Canon(s)
		if twice := Canon(once); twice != once {
			t.Errorf("Canon not idempotent for %q: %q != %q", s, twice, once)
		}
	}
}

func TestCanonEquivalence(t *testing.T) {
	if Canon("Machine-Learning") != Canon("machine learning") {
		t.Errorf("hyphen and space variants should share a canonical key")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		maxN int
		want []string
	}{
		{
			name: "duplicates and blanks folded",
			raw:  "Deep Learning, deep-learning, Radiomics, , MRI Segmentation, Radiomics",
			maxN: 4,
			want: []string{"Deep Learning", "Radiomics", "MRI Segmentation"},
		},
		{
			name: "newline separated",
			raw:  "Oncology\nTumor Staging\nBiomarkers",
			maxN: 10,
			want: []string{"Oncology", "Tumor Staging", "Biomarkers"},
		},
		{
			name: "bulleted lines",
			raw:  "- Oncology\n• Tumor Staging\n– Biomarkers",
			maxN: 10,
			want: []string{"Oncology", "Tumor Staging", "Biomarkers"},
		},
		{
			name: "quoted phrases unwrapped",
			raw:  `"Radiomics", 'Deep Learning'`,
			maxN: 10,
			want: []string{"Radiomics", "Deep Learning"},
		},
		{
			name: "over four words dropped",
			raw:  "a very long keyword phrase here, Radiomics",
			maxN: 10,
			want: []string{"Radiomics"},
		},
		{
			name: "over fifty characters dropped",
			raw:  strings.Repeat("x", 51) + ", Radiomics",
			maxN: 10,
			want: []string{"Radiomics"},
		},
		{
			name: "truncated to maxN in order",
			raw:  "one, two, three, four, five",
			maxN: 3,
			want: []string{"one", "two", "three"},
		},
		{
			name: "intra word hyphen survives",
			raw:  "deep-learning, radiomics",
			maxN: 10,
			want: []string{"deep-learning", "radiomics"},
		},
		{
			name: "empty input",
			raw:  "",
			maxN: 10,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw, tt.maxN)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q, %d) = %v, want %v", tt.raw, tt.maxN, got, tt.want)
			}
		})
	}
}

func TestParseInvariants(t *testing.T) {
	raw := "Deep Learning, deep learning, DEEP-LEARNING, " + strings.Repeat("y", 60) + ", one two three four five, ok"
	got := Parse(raw, 5)

	if len(got) > 5 {
		t.Errorf("Parse returned %d items, want at most 5", len(got))
	}
	seen := make(map[string]bool)
	for _, k := range got {
		if len(k) > MaxLength {
			t.Errorf("keyword %q exceeds %d characters", k, MaxLength)
		}
		if len(strings.Fields(k)) > MaxWords {
			t.Errorf("keyword %q exceeds %d words", k, MaxWords)
		}
		key := Canon(k)
		if seen[key] {
			t.Errorf("duplicate canonical key %q in %v", key, got)
		}
		seen[key] = true
	}
}
