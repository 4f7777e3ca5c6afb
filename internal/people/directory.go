package people

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/adenin-connectors/webex-teams/internal/cache"
	"github.com/adenin-connectors/webex-teams/internal/logging"
	"github.com/adenin-connectors/webex-teams/internal/models"
	"github.com/adenin-connectors/webex-teams/internal/webex"
)

// Directory deduplicates person lookups for one aggregation run. Each
// distinct person id is fetched at most once no matter how many feed items
// reference it; the lookup goes in flight the first time an id is
// registered and all of them are joined in Resolve.
type Directory struct {
	client *webex.Client
	cache  cache.Cache
	logger *logging.Logger

	group    singleflight.Group
	wg       sync.WaitGroup
	mu       sync.Mutex
	pending  map[string]struct{}
	resolved map[string]models.Person
}

// NewDirectory creates a directory for a single run. The cache is optional
// and only short-circuits the upstream fetch; it never changes the at-most-
// one-lookup-per-run guarantee.
func NewDirectory(client *webex.Client, c cache.Cache, logger *logging.Logger) *Directory {
	return &Directory{
		client:   client,
		cache:    c,
		logger:   logger,
		pending:  make(map[string]struct{}),
		resolved: make(map[string]models.Person),
	}
}

// Me returns the caller's own person record. Failure here is fatal to the
// run: mention matching cannot work without the caller's id.
func (d *Directory) Me(ctx context.Context) (models.Person, error) {
	key := "me:" + tokenDigest(d.client.Token())
	if person, ok := d.fromCache(key); ok {
		return person, nil
	}

	person, err := d.client.GetMe(ctx)
	if err != nil {
		return models.Person{}, err
	}

	d.store(key, person)
	return person, nil
}

// Register queues a lookup for id if one is not already pending. The
// pending set is populated synchronously; only the fetch itself runs in the
// background.
func (d *Directory) Register(ctx context.Context, id string) {
	if id == "" {
		return
	}

	d.mu.Lock()
	if _, exists := d.pending[id]; exists {
		d.mu.Unlock()
		return
	}
	d.pending[id] = struct{}{}
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.lookup(ctx, id)
	}()
}

// Resolve waits for every registered lookup and returns the people that
// could be fetched. Ids whose lookup failed are simply absent.
func (d *Directory) Resolve() map[string]models.Person {
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(map[string]models.Person, len(d.resolved))
	for id, person := range d.resolved {
		out[id] = person
	}
	return out
}

func (d *Directory) lookup(ctx context.Context, id string) {
	if person, ok := d.fromCache("person:" + id); ok {
		d.mu.Lock()
		d.resolved[id] = person
		d.mu.Unlock()
		return
	}

	value, err, _ := d.group.Do(id, func() (interface{}, error) {
		return d.client.GetPerson(ctx, id)
	})

	if err != nil {
		// A missing or failed person degrades its own items only.
		var signal *models.ErrorSignal
		if errors.As(err, &signal) {
			d.logger.Warn("Person lookup returned an error status", logging.WithFields(map[string]interface{}{
				"personId": id,
				"status":   signal.StatusCode,
			}))
		} else {
			d.logger.Warn("Person lookup failed", logging.WithFields(map[string]interface{}{
				"personId": id,
				"error":    err.Error(),
			}))
		}
		return
	}

	person := value.(models.Person)
	d.store("person:"+id, person)

	d.mu.Lock()
	d.resolved[id] = person
	d.mu.Unlock()
}

func (d *Directory) fromCache(key string) (models.Person, bool) {
	if d.cache == nil {
		return models.Person{}, false
	}

	value, ok := d.cache.Get(key)
	if !ok || value == nil {
		return models.Person{}, false
	}

	if person, ok := value.(models.Person); ok {
		return person, true
	}

	// Redis round-trips values through JSON, so re-decode the generic form.
	raw, err := json.Marshal(value)
	if err != nil {
		return models.Person{}, false
	}

	var person models.Person
	if err := json.Unmarshal(raw, &person); err != nil || person.ID == "" {
		return models.Person{}, false
	}
	return person, true
}

func (d *Directory) store(key string, person models.Person) {
	if d.cache != nil {
		d.cache.Set(key, person)
	}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", sum[:8])
}
