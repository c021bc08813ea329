// Package tokenlist maintains the whitelist/blacklist registry backed by
// JSON files. Lists are reloaded lazily on a TTL: every membership check
// may trigger a reload when the interval has elapsed. Reload fully
// replaces the in-memory maps, so redundant reloads are harmless.
package tokenlist

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/observability"
)

// DefaultReloadInterval is how long loaded lists stay fresh.
const DefaultReloadInterval = 5 * time.Minute

// Options configures a Registry.
type Options struct {
	// WhitelistPath and BlacklistPath are the split-file form.
	WhitelistPath string
	BlacklistPath string

	// CombinedPath is the single-file form; takes precedence when set.
	CombinedPath string

	// ReloadInterval defaults to DefaultReloadInterval when zero.
	ReloadInterval time.Duration

	// Metrics is optional.
	Metrics *observability.Metrics
}

// Registry answers whitelist/blacklist membership queries.
type Registry struct {
	mu        sync.RWMutex
	whitelist map[string]domain.WhitelistEntry // keyed by lower-cased mint
	blacklist map[string]domain.BlacklistEntry // keyed by lower-cased mint
	patterns  []domain.BlacklistPattern
	filters   Filters
	lastLoad  time.Time

	opts Options
	now  func() time.Time
}

// NewRegistry creates a registry and performs the initial load.
// Load failures never propagate: malformed or missing files fall back
// to empty lists with a warning.
func NewRegistry(opts Options) *Registry {
	if opts.ReloadInterval <= 0 {
		opts.ReloadInterval = DefaultReloadInterval
	}
	r := &Registry{
		whitelist: make(map[string]domain.WhitelistEntry),
		blacklist: make(map[string]domain.BlacklistEntry),
		opts:      opts,
		now:       time.Now,
	}
	r.Reload()
	return r
}

// WithClock sets a custom clock function for deterministic tests.
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// MaybeReload re-reads the list files when the reload interval has
// elapsed. Called at the start of every validation. Cooperative: two
// near-simultaneous callers may both reload, which is safe because
// reload is a full replace.
func (r *Registry) MaybeReload() {
	r.mu.RLock()
	stale := r.now().Sub(r.lastLoad) > r.opts.ReloadInterval
	r.mu.RUnlock()

	if stale {
		r.Reload()
	}
}

// Reload re-reads all list files and replaces the in-memory state.
func (r *Registry) Reload() {
	var (
		wl      *whitelistFile
		bl      *blacklistFile
		filters Filters
	)

	if r.opts.CombinedPath != "" {
		wl, bl, filters = r.loadCombined()
	} else {
		wl = r.loadWhitelist()
		bl = r.loadBlacklist()
	}

	whitelist := make(map[string]domain.WhitelistEntry, len(wl.Tokens))
	for _, e := range wl.Tokens {
		if e.Mint == "" {
			continue
		}
		whitelist[strings.ToLower(e.Mint)] = e
	}

	blacklist := make(map[string]domain.BlacklistEntry, len(bl.Tokens))
	for _, e := range bl.Tokens {
		if e.Mint == "" {
			continue
		}
		blacklist[strings.ToLower(e.Mint)] = e
	}

	r.mu.Lock()
	r.whitelist = whitelist
	r.blacklist = blacklist
	r.patterns = bl.Patterns
	r.filters = filters
	r.lastLoad = r.now()
	r.mu.Unlock()

	if m := r.opts.Metrics; m != nil {
		m.ListReloads.Inc()
	}
	log.Debug().
		Int("whitelist", len(whitelist)).
		Int("blacklist", len(blacklist)).
		Int("patterns", len(bl.Patterns)).
		Msg("token lists reloaded")
}

func (r *Registry) loadCombined() (*whitelistFile, *blacklistFile, Filters) {
	data, err := readOrCreate(r.opts.CombinedPath, emptyCombinedSkeleton)
	if err != nil {
		r.warnLoad(r.opts.CombinedPath, err)
		return &whitelistFile{}, &blacklistFile{}, Filters{}
	}

	combined, err := loadCombinedFile(data)
	if err != nil {
		r.warnLoad(r.opts.CombinedPath, err)
		return &whitelistFile{}, &blacklistFile{}, Filters{}
	}

	filters := Filters{}
	if combined.TokenFilters != nil {
		filters = *combined.TokenFilters
	}
	return &combined.Whitelist, &combined.Blacklist, filters
}

func (r *Registry) loadWhitelist() *whitelistFile {
	data, err := readOrCreate(r.opts.WhitelistPath, emptyListSkeleton)
	if err != nil {
		r.warnLoad(r.opts.WhitelistPath, err)
		return &whitelistFile{}
	}
	wl, err := loadWhitelistFile(data)
	if err != nil {
		r.warnLoad(r.opts.WhitelistPath, err)
		return &whitelistFile{}
	}
	return wl
}

func (r *Registry) loadBlacklist() *blacklistFile {
	data, err := readOrCreate(r.opts.BlacklistPath, emptyListSkeleton)
	if err != nil {
		r.warnLoad(r.opts.BlacklistPath, err)
		return &blacklistFile{}
	}
	bl, err := loadBlacklistFile(data)
	if err != nil {
		r.warnLoad(r.opts.BlacklistPath, err)
		return &blacklistFile{}
	}
	return bl
}

func (r *Registry) warnLoad(path string, err error) {
	if m := r.opts.Metrics; m != nil {
		m.ListReloadErrors.Inc()
	}
	log.Warn().Err(err).Str("path", path).Msg("token list unavailable, using empty list")
}

// Whitelist looks up a whitelist entry by mint (case-insensitive).
func (r *Registry) Whitelist(mint string) (domain.WhitelistEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.whitelist[strings.ToLower(mint)]
	return e, ok
}

// Blacklist looks up a blacklist entry by mint (case-insensitive).
func (r *Registry) Blacklist(mint string) (domain.BlacklistEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.blacklist[strings.ToLower(mint)]
	return e, ok
}

// MatchPattern returns the first blacklist pattern matching the token's
// name or symbol (substring, case-insensitive), or false.
func (r *Registry) MatchPattern(name, symbol string) (domain.BlacklistPattern, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowerName := strings.ToLower(name)
	lowerSymbol := strings.ToLower(symbol)

	for _, p := range r.patterns {
		if name != "" {
			for _, sub := range p.NameContains {
				if sub != "" && strings.Contains(lowerName, strings.ToLower(sub)) {
					return p, true
				}
			}
		}
		if symbol != "" {
			for _, sub := range p.SymbolContains {
				if sub != "" && strings.Contains(lowerSymbol, strings.ToLower(sub)) {
					return p, true
				}
			}
		}
	}
	return domain.BlacklistPattern{}, false
}

// Filters returns the overrides from the combined list file.
func (r *Registry) Filters() Filters {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.filters
}

// Counts returns (whitelist, blacklist) sizes for diagnostics.
func (r *Registry) Counts() (int, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.whitelist), len(r.blacklist)
}
