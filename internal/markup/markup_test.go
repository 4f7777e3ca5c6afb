package markup

import (
	"strings"
	"testing"

	"github.com/adenin-connectors/webex-teams/internal/models"
)

func TestRewrite_WrapsMention(t *testing.T) {
	engine := NewSparkMentions()
	item := &models.FeedItem{
		Description: "Avery Quinn please review",
		HTML:        `<p><spark-mention data-object-type="person" data-object-id="p1">Avery Quinn</spark-mention> please review</p>`,
	}

	engine.Rewrite(item)

	want := `<span class="blue">Avery Quinn</span> please review`
	if item.Description != want {
		t.Errorf("Description = %q, want %q", item.Description, want)
	}
}

func TestRewrite_GlobalReplacePerFragment(t *testing.T) {
	engine := NewSparkMentions()
	item := &models.FeedItem{
		Description: "Avery ping Avery again",
		HTML:        `<p><spark-mention data-object-type="person" data-object-id="p1">Avery</spark-mention> ping Avery again</p>`,
	}

	engine.Rewrite(item)

	if got := strings.Count(item.Description, `<span class="blue">Avery</span>`); got != 2 {
		t.Errorf("wrapped occurrences = %d, want every occurrence wrapped in one pass", got)
	}
}

func TestRewrite_DistinctFragments(t *testing.T) {
	engine := NewSparkMentions()
	item := &models.FeedItem{
		Description: "Avery and Blake: standup",
		HTML: `<p><spark-mention data-object-id="p1">Avery</spark-mention> and ` +
			`<spark-mention data-object-id="p2">Blake</spark-mention>: standup</p>`,
	}

	engine.Rewrite(item)

	want := `<span class="blue">Avery</span> and <span class="blue">Blake</span>: standup`
	if item.Description != want {
		t.Errorf("Description = %q, want %q", item.Description, want)
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	engine := NewSparkMentions()
	item := &models.FeedItem{
		Description: "Avery Quinn please review",
		HTML:        `<p><spark-mention data-object-id="p1">Avery Quinn</spark-mention> please review</p>`,
	}

	engine.Rewrite(item)
	once := item.Description
	engine.Rewrite(item)

	if item.Description != once {
		t.Errorf("second Rewrite changed the text:\n first: %q\nsecond: %q", once, item.Description)
	}
	if strings.Contains(item.Description, spanOpen+spanOpen) {
		t.Error("Rewrite produced nested spans")
	}
}

func TestRewrite_RepeatedTagRewrittenOnce(t *testing.T) {
	engine := NewSparkMentions()
	item := &models.FeedItem{
		Description: "Avery hello",
		HTML: `<p><spark-mention data-object-id="p1">Avery</spark-mention> ` +
			`<spark-mention data-object-id="p1">Avery</spark-mention> hello</p>`,
	}

	engine.Rewrite(item)

	want := `<span class="blue">Avery</span> hello`
	if item.Description != want {
		t.Errorf("Description = %q, want %q", item.Description, want)
	}
}

func TestRewrite_FragmentWithMetacharacters(t *testing.T) {
	engine := NewSparkMentions()
	item := &models.FeedItem{
		Description: "C++ (Core) team meet now",
		HTML:        `<p><spark-mention data-object-id="p1">C++ (Core) team</spark-mention> meet now</p>`,
	}

	engine.Rewrite(item)

	want := `<span class="blue">C++ (Core) team</span> meet now`
	if item.Description != want {
		t.Errorf("Description = %q, want %q", item.Description, want)
	}
}

func TestRewrite_NoMarkupUntouched(t *testing.T) {
	engine := NewSparkMentions()

	tests := []struct {
		name string
		item models.FeedItem
	}{
		{name: "no html", item: models.FeedItem{Description: "plain text"}},
		{name: "html without mentions", item: models.FeedItem{Description: "hi", HTML: "<p>hi</p>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.item.Description
			engine.Rewrite(&tt.item)
			if tt.item.Description != before {
				t.Errorf("Description changed from %q to %q", before, tt.item.Description)
			}
		})
	}
}
