package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectKanji_NewsSentence(t *testing.T) {
	text := "在外邦人向けサービス「NHKワールド・プレミアム」は、NHKが国内で放送するニュース・情報番組、ドラマ、音楽番組、子ども番組、スポーツ中継などから選んだ番組を24時間編成しています。"

	got := CollectKanji(text)

	assert.Equal(t, []string{
		"在", "外", "邦", "人", "向", "国", "内", "放", "送", "情", "報", "番", "組",
		"音", "楽", "子", "中", "継", "選", "時", "間", "編", "成",
	}, got)
}

func TestCollectKanji_Invariants(t *testing.T) {
	inputs := []string{
		"2017年のベストカバーを選ぶ祭典",
		"今日はいい天気ですね。肉を食べたい",
		"日日日本本",
		"abc",
	}
	for _, in := range inputs {
		got := CollectKanji(in)
		seen := map[string]bool{}
		for _, c := range got {
			assert.False(t, seen[c], "duplicate %q for %q", c, in)
			seen[c] = true
			assert.True(t, IsKanji([]rune(c)[0]), "%q is not kanji", c)
		}
	}
}

func TestCollectKanji_ExcludesKatakanaAndNumerals(t *testing.T) {
	assert.Equal(t, []string{"年", "選", "祭", "典"}, CollectKanji("2017年のベストカバーを選ぶ祭典"))
}

func TestCollectKanji_Empty(t *testing.T) {
	assert.Empty(t, CollectKanji(""))
}
