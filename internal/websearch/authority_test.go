package websearch

import (
	"testing"

	"github.com/veridex/veridex/internal/model"
)

func TestClassify(t *testing.T) {
	classifier := NewAuthorityClassifier()

	tests := []struct {
		name string
		url  string
		want model.AuthorityTier
	}{
		{"who", "https://www.who.int/news/item/some-release", model.TierPrimary},
		{"gov tld", "https://www.usda.gov/topics", model.TierPrimary},
		{"edu tld", "https://news.mit.edu/2024/study", model.TierPrimary},
		{"brazilian government", "https://www.planalto.gov.br/ccivil_03/leis", model.TierPrimary},
		{"wikipedia", "https://en.wikipedia.org/wiki/Vaccine", model.TierSecondary},
		{"fact checker", "https://www.snopes.com/fact-check/some-claim/", model.TierSecondary},
		{"subdomain of secondary", "https://noticias.bbc.co.uk/article", model.TierSecondary},
		{"random blog", "https://myblog.example.com/post", model.TierTertiary},
		{"host with port", "https://who.int:443/path", model.TierPrimary},
		{"unparseable", "::://bad url", model.TierTertiary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.url); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
