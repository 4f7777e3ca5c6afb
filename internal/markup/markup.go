package markup

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/adenin-connectors/webex-teams/internal/models"
)

// Engine rewrites inline mention markup in a feed item's description.
// The mention-tag syntax lives behind this interface so it can change
// without touching the aggregation logic.
type Engine interface {
	Rewrite(item *models.FeedItem)
}

const (
	mentionTag = "spark-mention"
	spanOpen   = `<span class="blue">`
	spanClose  = `</span>`
)

// SparkMentions handles the <spark-mention> tags Webex embeds in message
// HTML. Each distinct mention fragment found in the HTML is wrapped once,
// globally, in the plain-text description.
type SparkMentions struct{}

// NewSparkMentions creates the Webex mention rewriter
func NewSparkMentions() *SparkMentions {
	return &SparkMentions{}
}

// Rewrite wraps every occurrence of each mentioned display fragment in a
// styled span. Running it twice leaves the text unchanged: a fragment whose
// wrapped form is already present is skipped.
func (e *SparkMentions) Rewrite(item *models.FeedItem) {
	if item.HTML == "" || !strings.Contains(item.HTML, "<"+mentionTag) {
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(item.HTML))
	if err != nil {
		return
	}

	seen := make(map[string]struct{})
	doc.Find(mentionTag).Each(func(_ int, sel *goquery.Selection) {
		fragment := strings.TrimSpace(sel.Text())
		if fragment == "" {
			return
		}
		if _, done := seen[fragment]; done {
			return
		}
		seen[fragment] = struct{}{}

		wrapped := spanOpen + fragment + spanClose
		if strings.Contains(item.Description, wrapped) {
			return
		}

		// Plain string replacement: fragments may contain characters that
		// are regex metacharacters, so no pattern is ever built from them.
		item.Description = strings.ReplaceAll(item.Description, fragment, wrapped)
	})
}

var _ Engine = (*SparkMentions)(nil)
