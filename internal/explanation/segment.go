package explanation

import (
	"regexp"
	"strings"
)

var (
	// A line starting a new list item also starts a new block.
	bulletLine  = regexp.MustCompile(`^\s*(?:[-*•])\s+`)
	ordinalLine = regexp.MustCompile(`^\s*\d+[.)]\s+`)

	recommendKeyword = regexp.MustCompile(`(?i)\b(?:recomendo|recomendamos|recomenda-se|recommends?|recommended)\b`)
	leadingOrdinal   = regexp.MustCompile(`^\s*\d+\.`)
	ordinalMarker    = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	leadingTitle     = regexp.MustCompile(`^\*\*([^*]+?)\*\*:?\s*`)
)

// BlockKind classifies a narrative block.
type BlockKind int

const (
	BlockSummary BlockKind = iota + 1
	BlockRecommendation
	BlockTrailing
)

// Block is one segment of a narrative.
type Block struct {
	Kind BlockKind
	Text string
}

// Segmentation is the result of splitting a narrative.
type Segmentation struct {
	Blocks          []Block
	Summary         []string
	Recommendations []Recommendation
	// Trailing holds non-recommendation blocks that follow the first
	// recommendation. They do not enter the explanation.
	Trailing []string
}

// SplitBlocks splits a narrative on blank lines and on lines that begin a
// bullet or numbered list item. Bullet markers are removed; ordinal markers
// are kept so classification can see them.
func SplitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var blocks []string
	var cur []string
	flush := func() {
		if b := strings.TrimSpace(strings.Join(cur, "\n")); b != "" {
			blocks = append(blocks, b)
		}
		cur = cur[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case bulletLine.MatchString(line):
			flush()
			cur = append(cur, bulletLine.ReplaceAllString(line, ""))
		case ordinalLine.MatchString(line):
			flush()
			cur = append(cur, strings.TrimSpace(line))
		default:
			cur = append(cur, line)
		}
	}
	flush()
	return blocks
}

// IsRecommendation reports whether a block reads as a recommendation: it
// mentions a recommend keyword or starts with "N.".
func IsRecommendation(block string) bool {
	return recommendKeyword.MatchString(block) || leadingOrdinal.MatchString(block)
}

// Segment classifies the blocks of a narrative. It never fails; text without
// structure yields a single summary block.
func Segment(text string) Segmentation {
	seg := Segmentation{Recommendations: []Recommendation{}}
	foundRecommendation := false

	for _, b := range SplitBlocks(text) {
		switch {
		case IsRecommendation(b):
			foundRecommendation = true
			seg.Blocks = append(seg.Blocks, Block{Kind: BlockRecommendation, Text: b})
			seg.Recommendations = append(seg.Recommendations, toRecommendation(b))
		case !foundRecommendation:
			seg.Blocks = append(seg.Blocks, Block{Kind: BlockSummary, Text: b})
			seg.Summary = append(seg.Summary, b)
		default:
			seg.Blocks = append(seg.Blocks, Block{Kind: BlockTrailing, Text: b})
			seg.Trailing = append(seg.Trailing, b)
		}
	}
	return seg
}

func toRecommendation(block string) Recommendation {
	body := strings.TrimSpace(ordinalMarker.ReplaceAllString(block, ""))
	if m := leadingTitle.FindStringSubmatchIndex(body); m != nil {
		title := strings.TrimSpace(body[m[2]:m[3]])
		title = strings.TrimSuffix(title, ":")
		details := strings.TrimSpace(body[m[1]:])
		if details != "" {
			return Recommendation{Title: title, Details: details}
		}
	}
	return Recommendation{Details: body}
}

// FromNarrative builds an explanation from free text.
func FromNarrative(text string) *Explanation {
	seg := Segment(text)
	summary := strings.Join(seg.Summary, "\n\n")
	if summary == "" && len(seg.Recommendations) == 0 {
		summary = strings.TrimSpace(text)
	}
	return &Explanation{
		PredictionSummary:   summary,
		ContributingFactors: []Factor{},
		Recommendations:     seg.Recommendations,
		FromNarrative:       true,
	}
}
