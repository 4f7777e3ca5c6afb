package feed

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/adenin-connectors/webex-teams/internal/models"
)

// enrichStream joins resolved person records onto feed items. The caller's
// own items always read "You" rather than a fetched name. Direct-room
// openers whose room name matches a resolved person inherit that person's
// avatar as the room avatar; openers left without any avatar fall back to
// initials derived from the room name.
func (a *Aggregator) enrichStream(items []models.FeedItem, persons map[string]models.Person, me models.Person) {
	for i := range items {
		item := &items[i]

		if item.PersonID == me.ID {
			item.DisplayName = "You"
			item.Avatar = me.Avatar
		} else if person, ok := persons[item.PersonID]; ok {
			item.DisplayName = a.displayName(person)
			item.Avatar = person.Avatar
		}

		if item.GroupMarker != models.MarkerFirst && item.GroupMarker != models.MarkerFirstLast {
			continue
		}

		if item.Title == models.RoomTypeDirect {
			// A direct room is named after the contact, so the room avatar
			// should match the contact rather than the most recent author.
			for _, person := range persons {
				if person.DisplayName != "" && person.DisplayName == item.RoomName {
					item.RoomAvatar = person.Avatar
					break
				}
			}
		}

		if item.Avatar == "" && item.RoomAvatar == "" {
			item.Initials = initials(item.RoomName, item.Title)
		}
	}
}

func (a *Aggregator) displayName(person models.Person) string {
	if !a.opts.CompactNames {
		return person.DisplayName
	}
	if person.FirstName != "" {
		return person.FirstName
	}
	if fields := strings.Fields(person.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	return person.DisplayName
}

// initials takes the first character of up to the first two words of the
// room name; group rooms get a single initial.
func initials(roomName, roomType string) string {
	words := strings.Fields(norm.NFC.String(roomName))
	if len(words) == 0 {
		return ""
	}

	limit := 2
	if roomType == models.RoomTypeGroup {
		limit = 1
	}
	if len(words) < limit {
		limit = len(words)
	}

	var b strings.Builder
	for _, word := range words[:limit] {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
