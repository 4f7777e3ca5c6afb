package feed

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/adenin-connectors/webex-teams/internal/cache"
	"github.com/adenin-connectors/webex-teams/internal/logging"
	"github.com/adenin-connectors/webex-teams/internal/markup"
	"github.com/adenin-connectors/webex-teams/internal/models"
	"github.com/adenin-connectors/webex-teams/internal/people"
	"github.com/adenin-connectors/webex-teams/internal/webex"
)

// Options tune the aggregation window and display caps
type Options struct {
	// Horizon is how far back a room or message still counts as recent
	Horizon time.Duration

	// RoomItems caps how many messages per room reach the message stream
	RoomItems int

	// MentionItems caps how many mentions per room reach the mention stream
	MentionItems int

	// CompactNames switches display names to first names for surfaces
	// without room for the full name
	CompactNames bool
}

const (
	defaultHorizon      = 12 * time.Hour
	defaultRoomItems    = 5
	defaultMentionItems = 5
)

// Aggregator builds the recent-activity feed: rooms, their recent messages
// and the caller's mentions, enriched with person display data.
type Aggregator struct {
	markup markup.Engine
	cache  cache.Cache
	logger *logging.Logger
	opts   Options
	now    func() time.Time
}

// New creates an aggregator. The cache is optional and only backs person
// lookups; a nil markup engine disables mention rewriting.
func New(engine markup.Engine, c cache.Cache, logger *logging.Logger, opts Options) *Aggregator {
	if opts.Horizon <= 0 {
		opts.Horizon = defaultHorizon
	}
	if opts.RoomItems <= 0 {
		opts.RoomItems = defaultRoomItems
	}
	if opts.MentionItems <= 0 {
		opts.MentionItems = defaultMentionItems
	}

	return &Aggregator{
		markup: engine,
		cache:  c,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Aggregate runs one aggregation pass as the user the client authenticates.
// Fatal upstream failures come back as *models.ErrorSignal; an empty feed
// with zero counts is not an error.
func (a *Aggregator) Aggregate(ctx context.Context, client *webex.Client) (f models.Feed, err error) {
	f.Messages.Items = make([]models.FeedItem, 0)
	f.Mentions.Items = make([]models.FeedItem, 0)

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Aggregation panicked", logging.WithField("panic", fmt.Sprint(r)))
			f = models.Feed{
				Messages: models.Stream{Items: []models.FeedItem{}},
				Mentions: models.Stream{Items: []models.FeedItem{}},
			}
			err = &models.ErrorSignal{
				StatusCode: http.StatusInternalServerError,
				Body:       fmt.Sprint(r),
			}
		}
	}()

	dir := people.NewDirectory(client, a.cache, a.logger)

	rooms, err := client.ListRooms(ctx)
	if err != nil {
		return f, err
	}

	// Rooms aren't always returned chronologically; sort freshest first so
	// the recency cutoff below can stop at the first stale room.
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].LastActivity.After(rooms[j].LastActivity)
	})

	me, err := dir.Me(ctx)
	if err != nil {
		return f, err
	}

	now := a.now()

	var eligible []models.Room
	for _, room := range rooms {
		if !IsRecent(room.LastActivity, now, a.opts.Horizon) {
			break
		}
		eligible = append(eligible, room)
	}

	byRoom := make([][]models.RawMessage, len(eligible))

	g, gctx := errgroup.WithContext(ctx)
	for i, room := range eligible {
		i, room := i, room
		g.Go(func() error {
			messages, err := client.ListMessages(gctx, room.ID, 0)
			if err != nil {
				return err
			}
			byRoom[i] = FilterRecent(messages, now, a.opts.Horizon)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return f, err
	}

	for _, messages := range byRoom {
		f.Messages.Count += len(messages)
		f.Messages.Items = append(f.Messages.Items, a.buildRoomItems(ctx, messages, rooms, dir, me)...)

		mentions := a.extractMentions(ctx, messages, rooms, dir, me)
		f.Mentions.Count += len(mentions)
		f.Mentions.Items = append(f.Mentions.Items, mentions...)
	}

	resolved := dir.Resolve()
	a.enrichStream(f.Messages.Items, resolved, me)
	a.enrichStream(f.Mentions.Items, resolved, me)

	a.rewriteMentionMarkup(f.Messages.Items)
	a.rewriteMentionMarkup(f.Mentions.Items)

	markBoundaries(f.Messages.Items)
	markBoundaries(f.Mentions.Items)

	a.logger.Info("Aggregation complete", logging.WithFields(map[string]interface{}{
		"rooms":    len(eligible),
		"messages": f.Messages.Count,
		"mentions": f.Mentions.Count,
		"people":   len(resolved),
	}))

	return f, nil
}

// buildRoomItems maps one room's kept messages into feed items, up to the
// per-room cap, and applies the group markers.
func (a *Aggregator) buildRoomItems(ctx context.Context, messages []models.RawMessage, rooms []models.Room, dir *people.Directory, me models.Person) []models.FeedItem {
	if len(messages) == 0 {
		return nil
	}

	kept := len(messages)
	if kept > a.opts.RoomItems {
		kept = a.opts.RoomItems
	}

	items := make([]models.FeedItem, 0, kept)
	for _, raw := range messages[:kept] {
		if raw.PersonID != me.ID {
			dir.Register(ctx, raw.PersonID)
		}
		items = append(items, newItem(raw))
	}

	applyMarkers(items, len(messages)-kept, rooms)
	return items
}

// extractMentions scans a room's kept messages for mentions of the caller.
// The counter is independent from the message cap and the scan stops as
// soon as the cap is reached. The caller's own messages never qualify.
func (a *Aggregator) extractMentions(ctx context.Context, messages []models.RawMessage, rooms []models.Room, dir *people.Directory, me models.Person) []models.FeedItem {
	var items []models.FeedItem
	for _, raw := range messages {
		if len(items) == a.opts.MentionItems {
			break
		}
		if raw.PersonID == me.ID {
			continue
		}
		if !mentionsPerson(raw.MentionedPeople, me.ID) {
			continue
		}

		dir.Register(ctx, raw.PersonID)

		item := newItem(raw)
		item.Matched = true
		items = append(items, item)
	}

	applyMarkers(items, 0, rooms)
	return items
}

func newItem(raw models.RawMessage) models.FeedItem {
	return models.FeedItem{
		ID:          raw.ID,
		RoomID:      raw.RoomID,
		PersonID:    raw.PersonID,
		Title:       raw.RoomType,
		Description: raw.Text,
		HTML:        raw.HTML,
		Link:        roomDeepLink(raw.RoomID, raw.URL),
		Date:        raw.Created,
		FileCount:   len(raw.Files),
	}
}

// applyMarkers tags the opener and closer of a room's slice. Exactly one
// item carries first or firstlast and exactly one carries last or
// firstlast; firstlast only when the slice has a single kept item. The
// closer records how many kept messages fell outside the display cap, and
// the opener resolves its room name from the room list.
func applyMarkers(items []models.FeedItem, hidden int, rooms []models.Room) {
	if len(items) == 0 {
		return
	}

	opener := &items[0]
	closer := &items[len(items)-1]

	if len(items) == 1 {
		opener.GroupMarker = models.MarkerFirstLast
	} else {
		opener.GroupMarker = models.MarkerFirst
		closer.GroupMarker = models.MarkerLast
	}
	closer.HiddenCount = hidden

	for _, room := range rooms {
		if room.ID == opener.RoomID {
			opener.RoomName = room.Title
			break
		}
	}
}

func mentionsPerson(mentioned []string, personID string) bool {
	for _, id := range mentioned {
		if id == personID {
			return true
		}
	}
	return false
}

func (a *Aggregator) rewriteMentionMarkup(items []models.FeedItem) {
	if a.markup == nil {
		return
	}
	for i := range items {
		a.markup.Rewrite(&items[i])
	}
}

// markBoundaries flags the ends of a whole stream for UI styling,
// independent of the per-room group markers.
func markBoundaries(items []models.FeedItem) {
	if len(items) == 0 {
		return
	}
	items[0].IsFirst = true
	items[len(items)-1].IsLast = true
}
