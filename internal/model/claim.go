package model

import "strings"

// Claim represents the assertion submitted for verification.
// A claim is immutable once submitted; its identity is its text.
type Claim struct {
	Text string `json:"text"`
}

// NewClaim creates a claim from raw user input, trimming surrounding whitespace.
func NewClaim(text string) Claim {
	return Claim{Text: strings.TrimSpace(text)}
}

// IsEmpty reports whether the claim contains no text to verify.
func (c Claim) IsEmpty() bool {
	return c.Text == ""
}

// Tokens returns the lowercased whitespace-split tokens of the claim,
// used for keyword-overlap re-ranking.
func (c Claim) Tokens() []string {
	return strings.Fields(strings.ToLower(c.Text))
}

// Verdict is the closed set of outcomes a verification can reach.
// Free-form model output must be mapped into this set and never
// stored as an arbitrary string.
type Verdict string

const (
	VerdictTrue          Verdict = "TRUE"
	VerdictFalse         Verdict = "FALSE"
	VerdictPartiallyTrue Verdict = "PARTIALLY_TRUE"
	VerdictInsufficient  Verdict = "INSUFFICIENT"
	VerdictError         Verdict = "ERROR"
)

// verdictAliases maps model output tokens to verdicts. Portuguese aliases
// are included because much of the curated fact-check corpus is pt-BR and
// models answering in-language emit the localized labels.
var verdictAliases = map[string]Verdict{
	"TRUE":                    VerdictTrue,
	"VERDADEIRA":              VerdictTrue,
	"VERDADEIRO":              VerdictTrue,
	"FALSE":                   VerdictFalse,
	"FALSA":                   VerdictFalse,
	"FALSO":                   VerdictFalse,
	"PARTIALLY_TRUE":          VerdictPartiallyTrue,
	"PARTIALLY TRUE":          VerdictPartiallyTrue,
	"PARCIALMENTE VERDADEIRA": VerdictPartiallyTrue,
	"PARCIALMENTE VERDADEIRO": VerdictPartiallyTrue,
	"INSUFFICIENT":            VerdictInsufficient,
	"INSUFICIENTE":            VerdictInsufficient,
}

// ParseVerdict maps a free-form verdict token to the closed Verdict set.
// Unrecognized input resolves to VerdictInsufficient rather than an error,
// so a malformed model response can never crash the pipeline.
func ParseVerdict(s string) Verdict {
	token := strings.ToUpper(strings.TrimSpace(s))
	token = strings.Trim(token, " .!*[]")

	if v, ok := verdictAliases[token]; ok {
		return v
	}

	// Tolerate decoration around a known token ("**FALSE**", "FALSA.").
	// Longest aliases first so "PARCIALMENTE VERDADEIRA" wins over "VERDADEIRA".
	for _, alias := range []string{
		"PARCIALMENTE VERDADEIRA", "PARCIALMENTE VERDADEIRO", "PARTIALLY_TRUE", "PARTIALLY TRUE",
		"INSUFFICIENT", "INSUFICIENTE",
		"VERDADEIRA", "VERDADEIRO", "FALSA", "FALSO", "TRUE", "FALSE",
	} {
		if strings.Contains(token, alias) {
			return verdictAliases[alias]
		}
	}

	return VerdictInsufficient
}
