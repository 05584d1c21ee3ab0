package tokenize

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome-dict/uni"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/ppiankov/kotoba/internal/model"
)

// Tokenizer turns text into a morpheme stream
type Tokenizer interface {
	Tokenize(ctx context.Context, text string) ([]model.Morpheme, error)
}

// Kagome is a Tokenizer backed by the kagome morphological analyzer
type Kagome struct {
	t    *tokenizer.Tokenizer
	dict string
}

// NewKagome creates a tokenizer for the named dictionary ("ipa" or "uni")
func NewKagome(dictName string) (*Kagome, error) {
	name := strings.ToLower(strings.TrimSpace(dictName))

	var opts []tokenizer.Option
	opts = append(opts, tokenizer.OmitBosEos())

	var (
		t   *tokenizer.Tokenizer
		err error
	)
	switch name {
	case "", "ipa":
		name = "ipa"
		t, err = tokenizer.New(ipa.Dict(), opts...)
	case "uni", "unidic":
		name = "uni"
		t, err = tokenizer.New(uni.Dict(), opts...)
	default:
		return nil, fmt.Errorf("unknown tokenizer dictionary: %s (supported: ipa, uni)", dictName)
	}
	if err != nil {
		return nil, fmt.Errorf("init kagome (%s): %w", name, err)
	}

	return &Kagome{t: t, dict: name}, nil
}

// Dict returns the dictionary name in use
func (k *Kagome) Dict() string {
	return k.dict
}

// Tokenize splits text into morphemes in normal mode
func (k *Kagome) Tokenize(ctx context.Context, text string) ([]model.Morpheme, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return []model.Morpheme{}, nil
	}

	tokens := k.t.Tokenize(text)
	out := make([]model.Morpheme, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Class == tokenizer.DUMMY {
			continue
		}
		raw := ""
		if pos := tok.POS(); len(pos) > 0 {
			raw = pos[0]
		}
		out = append(out, model.Morpheme{
			Surface: tok.Surface,
			POS:     MapPOS(raw),
			RawPOS:  raw,
		})
	}
	return out, nil
}

// primaryTags maps IPA and UniDic primary tags to the model's tags
var primaryTags = map[string]model.PartOfSpeech{
	"動詞":   model.POSVerb,
	"助動詞":  model.POSAuxiliaryVerb,
	"名詞":   model.POSNoun,
	"代名詞":  model.POSNoun,
	"助詞":   model.POSParticle,
	"形容詞":  model.POSAdjective,
	"形状詞":  model.POSAdjective,
	"副詞":   model.POSAdverb,
	"接頭詞":  model.POSPrefix,
	"接頭辞":  model.POSPrefix,
	"接尾辞":  model.POSSuffix,
	"記号":   model.POSSymbol,
	"補助記号": model.POSSymbol,
	"空白":   model.POSSymbol,
}

// MapPOS converts a dictionary primary tag into a model tag
func MapPOS(raw string) model.PartOfSpeech {
	if pos, ok := primaryTags[raw]; ok {
		return pos
	}
	return model.POSOther
}
