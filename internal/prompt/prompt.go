// Package prompt renders the keyword-generation prompt sent to providers.
package prompt

import (
	"bytes"
	"strings"
	"text/template"
)

// keywordPromptTmpl is the fixed instructional template. The template is
// data, not logic: the only branch is the existing-tags guard.
var keywordPromptTmpl = template.Must(template.New("keywords").Parse(`I will give you a research article reference (DOI, PubMed ID, or title). Your task is to generate {{.N}} concise high-quality, publication-style keywords that reflect the article key themes, methodology, population, intervention, outcomes, and clinical/academic significance.
The keywords should include: Core topic / disease / intervention, Study design or methodology, Population characteristics (e.g., age group, region, sample type),
Primary outcomes or risk factors studied, Specific diseases, biomarkers, or subtypes mentioned, Clinical or translational implications.
Provide them in a clean, list. If available, base them on the abstract and results of the article, not just the title.

PAPER INFORMATION:
{{.Excerpt}}

Rules:
- Exactly {{.N}} keywords
- 1-3 words each
- Mix domain terms, specific technical terms, and methods
- Useful for academic search and categorization{{if .Existing}}
- Do NOT repeat any of these existing tags: {{.Existing}}{{end}}
- Return ONLY the keywords separated by commas`))

// Build renders the prompt for one excerpt, requesting exactly n keywords.
// When existingTags is non-empty an explicit do-not-repeat instruction is
// appended.
func Build(excerpt string, n int, existingTags []string) string {
	var buf bytes.Buffer
	err := keywordPromptTmpl.Execute(&buf, struct {
		Excerpt  string
		N        int
		Existing string
	}{
		Excerpt:  excerpt,
		N:        n,
		Existing: strings.Join(existingTags, ", "),
	})
	if err != nil {
		// The template has no failure modes beyond a broken struct, which
		// would be a programming error.
		panic(err)
	}
	return buf.String()
}
