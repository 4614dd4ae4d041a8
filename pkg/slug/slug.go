// Package slug derives deterministic ASCII-safe file names from Japanese
// words. The same word always yields the same name, so repeated pipeline runs
// overwrite their own artifacts and bridge media instead of accumulating
// copies; a short content hash keeps homophones (橋/箸) from colliding.
package slug

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

const mediaPrefix = "ankigen_"

var (
	tokOnce sync.Once
	tok     *tokenizer.Tokenizer
	tokErr  error
)

func analyzer() (*tokenizer.Tokenizer, error) {
	tokOnce.Do(func() {
		tok, tokErr = tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	})
	return tok, tokErr
}

// Word returns the slug for a word: the romanized reading plus a short hash
// of the original text.
func Word(word string) string {
	word = strings.TrimSpace(word)
	sum := sha256.Sum256([]byte(word))
	suffix := hex.EncodeToString(sum[:4])

	base := romanize(word)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// Media returns the bridge media filename for a word.
func Media(word string) string {
	return mediaPrefix + Word(word) + ".png"
}

// romanize converts the word's katakana reading to Hepburn-style romaji.
// Non-Japanese input passes through lowercased; anything unrepresentable is
// dropped (the hash suffix still distinguishes the word).
func romanize(word string) string {
	t, err := analyzer()
	if err != nil {
		return asciiOnly(word)
	}

	var parts []string
	for _, token := range t.Tokenize(word) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		reading := token.Surface
		// IPA feature 7 is the katakana reading.
		if features := token.Features(); len(features) > 7 && features[7] != "*" {
			reading = features[7]
		}
		if r := kataToRomaji(reading); r != "" {
			parts = append(parts, r)
		}
	}
	return strings.Join(parts, "-")
}

func asciiOnly(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var kanaDigraphs = map[string]string{
	"キャ": "kya", "キュ": "kyu", "キョ": "kyo",
	"シャ": "sha", "シュ": "shu", "ショ": "sho",
	"チャ": "cha", "チュ": "chu", "チョ": "cho",
	"ニャ": "nya", "ニュ": "nyu", "ニョ": "nyo",
	"ヒャ": "hya", "ヒュ": "hyu", "ヒョ": "hyo",
	"ミャ": "mya", "ミュ": "myu", "ミョ": "myo",
	"リャ": "rya", "リュ": "ryu", "リョ": "ryo",
	"ギャ": "gya", "ギュ": "gyu", "ギョ": "gyo",
	"ジャ": "ja", "ジュ": "ju", "ジョ": "jo",
	"ビャ": "bya", "ビュ": "byu", "ビョ": "byo",
	"ピャ": "pya", "ピュ": "pyu", "ピョ": "pyo",
	"ファ": "fa", "フィ": "fi", "フェ": "fe", "フォ": "fo",
	"ティ": "ti", "ディ": "di", "ウィ": "wi", "ウェ": "we", "ウォ": "wo",
}

var kanaSingles = map[rune]string{
	'ア': "a", 'イ': "i", 'ウ': "u", 'エ': "e", 'オ': "o",
	'カ': "ka", 'キ': "ki", 'ク': "ku", 'ケ': "ke", 'コ': "ko",
	'サ': "sa", 'シ': "shi", 'ス': "su", 'セ': "se", 'ソ': "so",
	'タ': "ta", 'チ': "chi", 'ツ': "tsu", 'テ': "te", 'ト': "to",
	'ナ': "na", 'ニ': "ni", 'ヌ': "nu", 'ネ': "ne", 'ノ': "no",
	'ハ': "ha", 'ヒ': "hi", 'フ': "fu", 'ヘ': "he", 'ホ': "ho",
	'マ': "ma", 'ミ': "mi", 'ム': "mu", 'メ': "me", 'モ': "mo",
	'ヤ': "ya", 'ユ': "yu", 'ヨ': "yo",
	'ラ': "ra", 'リ': "ri", 'ル': "ru", 'レ': "re", 'ロ': "ro",
	'ワ': "wa", 'ヲ': "o", 'ン': "n",
	'ガ': "ga", 'ギ': "gi", 'グ': "gu", 'ゲ': "ge", 'ゴ': "go",
	'ザ': "za", 'ジ': "ji", 'ズ': "zu", 'ゼ': "ze", 'ゾ': "zo",
	'ダ': "da", 'ヂ': "ji", 'ヅ': "zu", 'デ': "de", 'ド': "do",
	'バ': "ba", 'ビ': "bi", 'ブ': "bu", 'ベ': "be", 'ボ': "bo",
	'パ': "pa", 'ピ': "pi", 'プ': "pu", 'ペ': "pe", 'ポ': "po",
	'ァ': "a", 'ィ': "i", 'ゥ': "u", 'ェ': "e", 'ォ': "o",
}

func kataToRomaji(kana string) string {
	runes := []rune(kana)
	var b strings.Builder
	geminate := false
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == 'ッ':
			geminate = true
			continue
		case r == 'ー':
			// long vowel mark: the base vowel is already written
			continue
		}
		var syl string
		if i+1 < len(runes) {
			if d, ok := kanaDigraphs[string(runes[i:i+2])]; ok {
				syl = d
				i++
			}
		}
		if syl == "" {
			if s, ok := kanaSingles[r]; ok {
				syl = s
			} else if r < unicode.MaxASCII {
				syl = asciiOnly(string(r))
			}
		}
		if syl == "" {
			continue
		}
		if geminate {
			b.WriteByte(syl[0])
			geminate = false
		}
		b.WriteString(syl)
	}
	return b.String()
}
