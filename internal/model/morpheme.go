package model

// PartOfSpeech is the primary part-of-speech tag of a morpheme
type PartOfSpeech string

const (
	POSVerb          PartOfSpeech = "VERB"
	POSAuxiliaryVerb PartOfSpeech = "AUXILIARY_VERB"
	POSNoun          PartOfSpeech = "NOUN"
	POSParticle      PartOfSpeech = "PARTICLE"
	POSAdjective     PartOfSpeech = "ADJECTIVE"
	POSAdverb        PartOfSpeech = "ADVERB"
	POSPrefix        PartOfSpeech = "PREFIX"
	POSSuffix        PartOfSpeech = "SUFFIX"
	POSSymbol        PartOfSpeech = "SYMBOL"
	POSOther         PartOfSpeech = "OTHER"
)

// IsVerbal reports whether the tag takes part in compound-word merging
func (p PartOfSpeech) IsVerbal() bool {
	return p == POSVerb || p == POSAuxiliaryVerb
}

// Morpheme is one tokenizer-emitted unit of text
type Morpheme struct {
	Surface string       `json:"surface"`
	POS     PartOfSpeech `json:"pos"`
	RawPOS  string       `json:"raw_pos,omitempty"` // Tag as emitted by the dictionary (e.g. "動詞")
}
