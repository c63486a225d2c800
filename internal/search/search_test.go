package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryActive(t *testing.T) {
	assert.False(t, NewQuery("").Active())
	assert.False(t, NewQuery("  i ").Active())
	assert.True(t, NewQuery("ip").Active())
	assert.True(t, NewQuery(" کت ").Active())
	assert.Equal(t, "iph", NewQuery("  IPH ").Text())
}

func TestScoreTiers(t *testing.T) {
	testCases := []struct {
		name     string
		doc      Document
		query    string
		expected int
	}{
		{"sku exact", Document{SKU: "ELE-IPH-0A1B2C"}, "ele-iph-0a1b2c", ScoreCodeExact},
		{"barcode exact", Document{Barcode: "629100"}, "629100", ScoreCodeExact},
		{"sku prefix", Document{SKU: "ELE-IPH-0A1B2C"}, "ele-iph", ScoreCodePrefix},
		{"name exact", Document{Names: []string{"iPhone"}}, "iphone", ScoreNameExact},
		{"name exact in other language", Document{Names: []string{"Phone", "گوشی"}}, "گوشی", ScoreNameExact},
		{"name prefix", Document{Names: []string{"iPhone 15"}}, "iph", ScoreNamePrefix},
		{"name contains", Document{Names: []string{"Phone case iph"}}, "iph", ScoreNameContains},
		{"brand", Document{Names: []string{"Case"}, Brand: "Apple"}, "appl", ScoreBrand},
		{"color exact", Document{Colors: []string{"red"}}, "red", ScoreVariantExact},
		{"size exact", Document{Sizes: []string{"xl"}}, "xl", ScoreVariantExact},
		{"color partial", Document{Colors: []string{"dark red"}}, "red", ScoreVariantPartial},
		{"keyword", Document{Keywords: []string{"wireless charging"}}, "wireless", ScoreKeyword},
		{"subcategory", Document{SubcategoryNames: []string{"Smartphones"}, CategoryNames: []string{"Smart home"}}, "smart", ScoreSubcategory},
		{"category", Document{CategoryNames: []string{"Electronics"}}, "electro", ScoreCategory},
		{"seller name", Document{SellerName: "Kabul Gadgets"}, "gadget", ScoreSeller},
		{"seller matched by id", Document{SellerMatched: true}, "gadget", ScoreSeller},
		{"tag", Document{Tags: []string{"gift"}}, "gift", ScoreTag},
		{"description only", Document{Names: []string{"Cover"}, Descriptions: []string{"fits iphone"}}, "iph", ScoreFallback},
		{"no match", Document{Names: []string{"Cover"}}, "iph", ScoreNoMatch},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Score(tc.doc, NewQuery(tc.query)))
		})
	}
}

func TestScorePrefersHighestTier(t *testing.T) {
	doc := Document{
		Names:         []string{"Red dress"},
		Colors:        []string{"red"},
		CategoryNames: []string{"Red collection"},
	}

	assert.Equal(t, ScoreNamePrefix, Score(doc, NewQuery("red")))
}

func TestRankOrdersByRelevance(t *testing.T) {
	docs := map[string]Document{
		"description": {Names: []string{"Screen protector"}, Descriptions: []string{"made for iph models"}},
		"contains":    {Names: []string{"Phone case iph"}},
		"prefix":      {Names: []string{"iPhone 15"}},
		"unrelated":   {Names: []string{"Kettle"}},
	}
	input := []string{"description", "contains", "prefix", "unrelated"}

	ranked := Rank(input, NewQuery("iph"), func(id string) Document { return docs[id] })

	assert.Equal(t, []string{"prefix", "contains", "description"}, ranked)
}

func TestRankKeepsInputOrderForEqualScores(t *testing.T) {
	docs := map[string]Document{
		"newest": {Names: []string{"Blue scarf"}},
		"middle": {Names: []string{"Blue hat"}},
		"oldest": {Names: []string{"Blue coat"}},
	}
	input := []string{"newest", "middle", "oldest"}

	ranked := Rank(input, NewQuery("blue"), func(id string) Document { return docs[id] })

	assert.Equal(t, input, ranked)
}
