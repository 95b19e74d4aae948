package scorer

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicons holds the data-driven scoring tables. Keeping them as data
// rather than code branches lets the weights be replaced without a rebuild.
type Lexicons struct {
	// Importance maps domain keywords to 1-5 weights; the maximum matched
	// weight becomes the item's importance.
	Importance map[string]int `yaml:"importance"`

	// Sentiment word lists. Positive hits vs negative hits decide tone.
	Sentiment struct {
		Positive []string `yaml:"positive"`
		Negative []string `yaml:"negative"`
	} `yaml:"sentiment"`

	// Relevance keywords each add +5 on top of the base 50.
	Relevance []string `yaml:"relevance"`

	// Authoritative origins earn the +20 quality bonus.
	Authoritative []string `yaml:"authoritative"`

	// TechTrends keywords surfaced in the report's market-trend summary.
	TechTrends []string `yaml:"tech_trends"`
}

// DefaultLexicons decodes the embedded lexicon tables.
func DefaultLexicons() (*Lexicons, error) {
	return parseLexicons(defaultLexiconYAML)
}

// LoadLexicons reads lexicon tables from a YAML file, falling back to the
// embedded defaults when path is empty.
func LoadLexicons(path string) (*Lexicons, error) {
	if path == "" {
		return DefaultLexicons()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scorer: read lexicon file %s", path)
	}
	return parseLexicons(data)
}

func parseLexicons(data []byte) (*Lexicons, error) {
	var lex Lexicons
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, eris.Wrap(err, "scorer: parse lexicons")
	}
	if len(lex.Importance) == 0 {
		return nil, eris.New("scorer: lexicons missing importance table")
	}
	return &lex, nil
}

// IsAuthoritative reports whether an origin is on the authoritative list.
func (l *Lexicons) IsAuthoritative(origin string) bool {
	for _, a := range l.Authoritative {
		if a == origin {
			return true
		}
	}
	return false
}
