package metadata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/youruser/lordeck/internal/util"
)

// errCacheMiss covers absent, expired and corrupt cache files alike.
var errCacheMiss = errors.New("metadata cache miss")

// encMode uses Core Deterministic Encoding so digests over re-encoded
// values match the digests taken at store time.
var encMode cbor.EncMode

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("metadata: CBOR encoder initialization failed: " + err.Error())
	}
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("metadata: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("metadata: zstd decoder initialization failed: " + err.Error())
	}
}

// bundle is everything Data Dragon publishes for one language.
type bundle struct {
	Regions []RegionMetadata `cbor:"regions"`
	Sets    []string         `cbor:"sets"`
	Cards   []CardMetadata   `cbor:"cards"`
}

type cacheHeader struct {
	Date         int64    `cbor:"date"` // unix milliseconds
	CoreDigest   [32]byte `cbor:"core"`
	CardsDigest  [32]byte `cbor:"cards"`
	FormatNumber int      `cbor:"format"`
}

type cacheFile struct {
	Header cacheHeader `cbor:"header"`
	Bundle bundle      `cbor:"bundle"`
}

const cacheFormat = 1

// Cache stores Data Dragon bundles on disk, one zstd-compressed CBOR file per
// language, and serves them until TTL passes.
type Cache struct {
	Dir string
	TTL time.Duration

	now func() time.Time
}

// NewCache returns a cache rooted at dir.
func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{Dir: dir, TTL: ttl, now: time.Now}
}

func (c *Cache) path(lang string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("lor-data-dragon-%s.cache", lang))
}

func digests(b bundle) (core, cards [32]byte, err error) {
	coreBytes, err := encMode.Marshal(struct {
		Regions []RegionMetadata `cbor:"regions"`
		Sets    []string         `cbor:"sets"`
	}{b.Regions, b.Sets})
	if err != nil {
		return core, cards, err
	}
	cardBytes, err := encMode.Marshal(b.Cards)
	if err != nil {
		return core, cards, err
	}
	return blake3.Sum256(coreBytes), blake3.Sum256(cardBytes), nil
}

// Load returns the cached bundle for lang, or errCacheMiss.
func (c *Cache) Load(lang string) (*bundle, error) {
	compressed, err := os.ReadFile(c.path(lang))
	if err != nil {
		return nil, errCacheMiss
	}
	raw, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd decompress: %v", errCacheMiss, err)
	}
	var f cacheFile
	if err := cbor.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errCacheMiss, err)
	}
	if f.Header.FormatNumber != cacheFormat {
		return nil, fmt.Errorf("%w: format %d", errCacheMiss, f.Header.FormatNumber)
	}
	if c.now().Sub(time.UnixMilli(f.Header.Date)) > c.TTL {
		return nil, fmt.Errorf("%w: expired", errCacheMiss)
	}
	core, cards, err := digests(f.Bundle)
	if err != nil {
		return nil, fmt.Errorf("%w: digest: %v", errCacheMiss, err)
	}
	if core != f.Header.CoreDigest || cards != f.Header.CardsDigest {
		return nil, fmt.Errorf("%w: digest mismatch", errCacheMiss)
	}
	return &f.Bundle, nil
}

// Store writes b for lang, replacing any previous file.
func (c *Cache) Store(lang string, b *bundle) error {
	if err := util.EnsureDir(c.Dir); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	core, cards, err := digests(*b)
	if err != nil {
		return fmt.Errorf("digest bundle: %w", err)
	}
	raw, err := encMode.Marshal(cacheFile{
		Header: cacheHeader{Date: c.now().UnixMilli(), CoreDigest: core, CardsDigest: cards, FormatNumber: cacheFormat},
		Bundle: *b,
	})
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(c.Dir, ".lor-data-dragon-*")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(zstdEncoder.EncodeAll(raw, nil)); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}
	return os.Rename(tmp.Name(), c.path(lang))
}
