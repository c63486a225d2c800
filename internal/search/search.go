// Package search holds the catalog's free-text matching and relevance tiers.
package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MinQueryLength is the shortest trimmed query that filters the catalog.
// Shorter queries leave the result set untouched.
const MinQueryLength = 2

// Relevance tiers. Higher wins.
const (
	ScoreCodeExact      = 110
	ScoreCodePrefix     = 105
	ScoreNameExact      = 100
	ScoreNamePrefix     = 90
	ScoreNameContains   = 80
	ScoreBrand          = 75
	ScoreVariantExact   = 70
	ScoreVariantPartial = 65
	ScoreKeyword        = 60
	ScoreSubcategory    = 55
	ScoreCategory       = 50
	ScoreSeller         = 40
	ScoreTag            = 35
	ScoreFallback       = 30
	ScoreNoMatch        = 0
)

type Query struct {
	text string
}

func NewQuery(raw string) Query {
	return Query{text: Fold(strings.TrimSpace(raw))}
}

// Active reports whether the query is long enough to filter and rank.
func (q Query) Active() bool {
	return utf8.RuneCountInString(q.text) >= MinQueryLength
}

func (q Query) Text() string {
	return q.text
}

// Fold case-folds s for case-insensitive comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Document is the searchable view of one catalog product.
type Document struct {
	SKU              string
	Barcode          string
	Names            []string
	Descriptions     []string
	Brand            string
	Keywords         []string
	CategoryNames    []string
	SubcategoryNames []string
	SellerName       string
	// SellerMatched is set when the product's seller is in the set of
	// sellers whose business name matched the query.
	SellerMatched bool
	Colors        []string
	Sizes         []string
	Tags          []string
}

// Matches reports whether any searchable field contains the query.
func Matches(doc Document, q Query) bool {
	t := q.text
	return contains(doc.SKU, t) ||
		contains(doc.Barcode, t) ||
		anyContains(doc.Names, t) ||
		anyContains(doc.Descriptions, t) ||
		contains(doc.Brand, t) ||
		anyContains(doc.Keywords, t) ||
		anyContains(doc.CategoryNames, t) ||
		anyContains(doc.SubcategoryNames, t) ||
		contains(doc.SellerName, t) || doc.SellerMatched ||
		anyContains(doc.Colors, t) ||
		anyContains(doc.Sizes, t) ||
		anyContains(doc.Tags, t)
}

// Score returns the relevance tier of doc for q, or ScoreNoMatch when
// nothing matches.
func Score(doc Document, q Query) int {
	t := q.text
	switch {
	case equals(doc.SKU, t) || equals(doc.Barcode, t):
		return ScoreCodeExact
	case hasPrefix(doc.SKU, t) || hasPrefix(doc.Barcode, t):
		return ScoreCodePrefix
	case anyEquals(doc.Names, t):
		return ScoreNameExact
	case anyHasPrefix(doc.Names, t):
		return ScoreNamePrefix
	case anyContains(doc.Names, t):
		return ScoreNameContains
	case contains(doc.Brand, t):
		return ScoreBrand
	case anyEquals(doc.Colors, t) || anyEquals(doc.Sizes, t):
		return ScoreVariantExact
	case anyContains(doc.Colors, t) || anyContains(doc.Sizes, t):
		return ScoreVariantPartial
	case anyContains(doc.Keywords, t):
		return ScoreKeyword
	case anyContains(doc.SubcategoryNames, t):
		return ScoreSubcategory
	case anyContains(doc.CategoryNames, t):
		return ScoreCategory
	case contains(doc.SellerName, t) || doc.SellerMatched:
		return ScoreSeller
	case anyContains(doc.Tags, t):
		return ScoreTag
	case Matches(doc, q):
		return ScoreFallback
	}
	return ScoreNoMatch
}

// Rank keeps the items matching q and orders them by score, highest first.
// Items with equal scores keep their input order.
func Rank[T any](items []T, q Query, document func(T) Document) []T {
	type scored struct {
		item  T
		score int
	}

	matched := make([]scored, 0, len(items))
	for _, item := range items {
		doc := document(item)
		if !Matches(doc, q) {
			continue
		}
		matched = append(matched, scored{item: item, score: Score(doc, q)})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	out := make([]T, len(matched))
	for i, m := range matched {
		out[i] = m.item
	}
	return out
}

func equals(field, q string) bool {
	return field != "" && Fold(field) == q
}

func hasPrefix(field, q string) bool {
	return field != "" && strings.HasPrefix(Fold(field), q)
}

func contains(field, q string) bool {
	return field != "" && strings.Contains(Fold(field), q)
}

func anyEquals(fields []string, q string) bool {
	for _, f := range fields {
		if equals(f, q) {
			return true
		}
	}
	return false
}

func anyHasPrefix(fields []string, q string) bool {
	for _, f := range fields {
		if hasPrefix(f, q) {
			return true
		}
	}
	return false
}

func anyContains(fields []string, q string) bool {
	for _, f := range fields {
		if contains(f, q) {
			return true
		}
	}
	return false
}
