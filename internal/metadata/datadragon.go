package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/lordeck/internal/util"
)

// DefaultDataDragonURL is the public Data Dragon root.
const DefaultDataDragonURL = "https://dd.b.pvp.net/latest/"

const (
	setWorkers = 6

	// loadTimeout bounds one bundle download, which outlives the request
	// that started it.
	loadTimeout = 2 * time.Minute
)

type globals struct {
	Regions []RegionMetadata `json:"regions"`
	Sets    []struct {
		NameRef string `json:"nameRef"`
	} `json:"sets"`
}

// DataDragon fetches card metadata from Riot's Data Dragon bundles.
type DataDragon struct {
	baseURL *url.URL
	client  *http.Client
	cache   *Cache
	logger  *log.Logger

	group  singleflight.Group
	mu     sync.Mutex
	loaded map[string]*bundle
}

// NewDataDragon returns a provider reading from baseURL. client and cache
// may be nil.
func NewDataDragon(baseURL string, client *http.Client, cache *Cache, logger *log.Logger) (*DataDragon, error) {
	if baseURL == "" {
		baseURL = DefaultDataDragonURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse data dragon url: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &DataDragon{
		baseURL: u,
		client:  client,
		cache:   cache,
		logger:  logger,
		loaded:  make(map[string]*bundle),
	}, nil
}

// Fetch implements Provider.
func (d *DataDragon) Fetch(ctx context.Context, cardCodes, factionCodes []string, language string) (*Metadata, error) {
	lang, err := NormalizeLanguage(language)
	if err != nil {
		return nil, err
	}
	b, err := d.get(ctx, lang)
	if err != nil {
		return nil, err
	}
	return pick(b.Cards, b.Regions, cardCodes, factionCodes), nil
}

// get returns the bundle for lang, loading it at most once at a time. The
// load runs detached from ctx so a caller going away cannot cut it short;
// the caller only stops waiting.
func (d *DataDragon) get(ctx context.Context, lang string) (*bundle, error) {
	d.mu.Lock()
	b, ok := d.loaded[lang]
	d.mu.Unlock()
	if ok {
		return b, nil
	}

	ch := d.group.DoChan(lang, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return d.load(loadCtx, lang)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*bundle), nil
	}
}

func (d *DataDragon) load(ctx context.Context, lang string) (*bundle, error) {
	d.mu.Lock()
	b, ok := d.loaded[lang]
	d.mu.Unlock()
	if ok {
		return b, nil
	}

	if d.cache != nil {
		b, err := d.cache.Load(lang)
		if err == nil {
			d.logger.Debug("data dragon cache hit", "language", lang)
			d.remember(lang, b)
			return b, nil
		}
		d.logger.Debug("data dragon cache miss", "language", lang, "reason", err)
	}

	b, err := d.download(ctx, lang)
	if err != nil {
		return nil, err
	}
	if d.cache != nil {
		if err := d.cache.Store(lang, b); err != nil {
			d.logger.Warn("failed to store data dragon cache", "language", lang, "error", err)
		}
	}
	d.remember(lang, b)
	return b, nil
}

func (d *DataDragon) remember(lang string, b *bundle) {
	d.mu.Lock()
	d.loaded[lang] = b
	d.mu.Unlock()
}

func (d *DataDragon) resolve(path string) string {
	return d.baseURL.ResolveReference(&url.URL{Path: path}).String()
}

func (d *DataDragon) download(ctx context.Context, lang string) (*bundle, error) {
	l := strings.ToLower(lang)
	body, err := util.GetBytes(ctx, d.client, d.resolve(fmt.Sprintf("core/%s/data/globals-%s.json", l, l)))
	if err != nil {
		return nil, fmt.Errorf("fetch data dragon globals: %w", err)
	}
	var core globals
	if err := json.Unmarshal(body, &core); err != nil {
		return nil, fmt.Errorf("decode data dragon globals: %w", err)
	}

	b := &bundle{Regions: core.Regions}
	for _, s := range core.Sets {
		b.Sets = append(b.Sets, strings.ToLower(s.NameRef))
	}

	// Sets that fail to download are skipped; the rest still serve.
	results := make([][]CardMetadata, len(b.Sets))
	var g errgroup.Group
	g.SetLimit(setWorkers)
	for i, name := range b.Sets {
		g.Go(func() error {
			body, err := util.GetBytes(ctx, d.client, d.resolve(fmt.Sprintf("%s/%s/data/%s-%s.json", name, l, name, l)))
			if err != nil {
				d.logger.Warn("skipping data dragon set", "set", name, "error", err)
				return nil
			}
			var set []CardMetadata
			if err := json.Unmarshal(body, &set); err != nil {
				d.logger.Warn("skipping data dragon set", "set", name, "error", err)
				return nil
			}
			results[i] = set
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch data dragon sets: %w", err)
	}

	loaded := 0
	for _, set := range results {
		if set != nil {
			loaded++
		}
		b.Cards = append(b.Cards, set...)
	}
	if len(b.Sets) > 0 && loaded == 0 {
		return nil, fmt.Errorf("fetch data dragon sets: none of %d sets could be loaded", len(b.Sets))
	}
	sort.Slice(b.Cards, func(i, j int) bool { return b.Cards[i].CardCode < b.Cards[j].CardCode })
	d.logger.Info("loaded data dragon", "language", lang, "sets", len(b.Sets), "cards", len(b.Cards))
	return b, nil
}
