package torbox

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dylanmazurek/torbox-go/internal/config"
	"github.com/dylanmazurek/torbox-go/internal/logger"
	debridModels "github.com/dylanmazurek/torbox-go/pkg/debrid/models"
	api "github.com/dylanmazurek/torbox-go/pkg/torbox"
	apiModels "github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

type Torbox struct {
	logger zerolog.Logger

	clientOptions *debridModels.ClientOptions

	client   *api.Client
	cfg      *config.Config
	accounts *debridModels.Accounts

	profileMu sync.Mutex
	profile   *debridModels.Profile
}

var _ debridModels.Client = (*Torbox)(nil)

// New builds a provider for one configured account. cfg supplies the file
// filters and API settings; nil means config.Get(). opts are applied last.
func New(dc config.Debrid, cfg *config.Config, opts ...api.Option) (*Torbox, error) {
	if dc.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", dc.Name, debridModels.ErrMissingAPIKey)
	}

	if cfg == nil {
		cfg = config.Get()
	}

	_log := logger.New(dc.Name)

	clientOpts := []api.Option{
		api.WithAccessToken(dc.APIKey),
		api.WithRateLimit(dc.RateLimit),
		api.WithProxy(dc.Proxy),
		api.WithLogger(_log),
		api.WithUserAgent(fmt.Sprintf("%s (%s; %s)", api.DefaultUserAgent, runtime.GOOS, runtime.GOARCH)),
	}
	if cfg.API.BaseURL != "" {
		clientOpts = append(clientOpts, api.WithBaseURL(cfg.API.BaseURL))
	}
	if cfg.API.APIVersion != "" {
		clientOpts = append(clientOpts, api.WithAPIVersion(cfg.API.APIVersion))
	}
	if cfg.API.Timeout > 0 {
		clientOpts = append(clientOpts, api.WithTimeout(cfg.API.Timeout))
	}
	if cfg.Retry.MaxAttempts > 0 {
		clientOpts = append(clientOpts, api.WithRetryPolicy(api.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		}))
	}

	client, err := api.New(append(clientOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dc.Name, err)
	}

	autoExpireLinksAfter, err := time.ParseDuration(dc.AutoExpireLinksAfter)
	if autoExpireLinksAfter == 0 || err != nil {
		autoExpireLinksAfter = 48 * time.Hour
	}

	newClientOptions := &debridModels.ClientOptions{
		Name:      dc.Name,
		MountPath: dc.Folder,
		Host:      client.BaseURL(),
		APIKey:    dc.APIKey,

		CheckCached:          dc.CheckCached,
		AddSamples:           dc.AddSamples,
		DownloadUncached:     dc.DownloadUncached,
		AutoExpireLinksAfter: autoExpireLinksAfter,
		DownloadingStatus:    []string{debridModels.StatusDownloading},
	}

	newTorbox := &Torbox{
		logger:        _log,
		clientOptions: newClientOptions,
		client:        client,
		cfg:           cfg,

		accounts: debridModels.NewAccounts(dc),
	}

	return newTorbox, nil
}

func (tb *Torbox) ClientOptions() debridModels.ClientOptions {
	return *tb.clientOptions
}

func (tb *Torbox) Logger() zerolog.Logger {
	return tb.logger
}

// API exposes the underlying client for calls the provider does not wrap.
func (tb *Torbox) API() *api.Client {
	return tb.client
}

var statusSuffixRe = regexp.MustCompile(`\s*\(.*?\)\s*`)

var (
	downloadedStatuses = []string{
		"completed", "cached", "downloaded",
	}

	downloadingStatuses = []string{
		"paused", "downloading", "pausedDL",
		"pausedUP", "queuedUP", "forcedUP",
		"metaDL", "stopped seeding", "stalled",
		"queuedDL", "forcedDL", "moving", "allocating",
		"checkingUP", "checkingDL", "checkingResumeData",
	}

	seedingStatuses = []string{
		"seeding", "uploading",
	}
)

func getTorboxStatus(status string, finished bool) string {
	if finished {
		return debridModels.StatusDownloaded
	}

	cleanStatus := strings.TrimSpace(statusSuffixRe.ReplaceAllString(status, ""))

	switch {
	case slices.Contains(downloadedStatuses, cleanStatus):
		return debridModels.StatusDownloaded
	case slices.Contains(downloadingStatuses, cleanStatus):
		return debridModels.StatusDownloading
	case slices.Contains(seedingStatuses, cleanStatus):
		return debridModels.StatusSeeding
	}

	return debridModels.StatusError
}

// CheckStatus refreshes the torrent once. Torrents still downloading are
// only accepted when uncached downloads are allowed.
func (tb *Torbox) CheckStatus(ctx context.Context, torrent *debridModels.DebridTorrent) (*debridModels.DebridTorrent, error) {
	if err := tb.UpdateTorrent(ctx, torrent); err != nil {
		return torrent, err
	}

	switch status := torrent.Status; {
	case status == debridModels.StatusDownloaded:
		tb.logger.Info().Msgf("torrent: %s downloaded", torrent.Name)

		return torrent, nil
	case slices.Contains(tb.clientOptions.DownloadingStatus, status):
		if !torrent.DownloadUncached {
			return torrent, fmt.Errorf("torrent: %s: %w", torrent.Name, debridModels.ErrNotCached)
		}

		return torrent, nil
	case status == debridModels.StatusSeeding:
		return torrent, nil
	}

	return torrent, fmt.Errorf("torrent: %s has error", torrent.Name)
}

var planSlots = map[string]int{
	"essential": 3,
	"standard":  5,
	"pro":       10,
}

// GetAvailableSlots is the plan's concurrent slots minus active torrents.
func (tb *Torbox) GetAvailableSlots(ctx context.Context) (int, error) {
	profile, err := tb.GetProfile(ctx)
	if err != nil {
		return 0, err
	}

	activeTorrents, err := tb.GetTorrents(ctx)
	if err != nil {
		return 0, err
	}

	activeCount := 0
	for _, t := range activeTorrents {
		if t.IsActive != nil && *t.IsActive {
			activeCount++
		}
	}

	return max(profile.Slots-activeCount, 0), nil
}

func (tb *Torbox) GetProfile(ctx context.Context) (*debridModels.Profile, error) {
	tb.profileMu.Lock()
	defer tb.profileMu.Unlock()

	if tb.profile != nil {
		return tb.profile, nil
	}

	resp, err := tb.client.User.GetUserData(ctx, &apiModels.UserDataParams{Settings: apiModels.Ptr(true)})
	if err != nil {
		return nil, err
	}

	if !resp.Success || resp.Data == nil {
		return nil, fmt.Errorf("error getting profile: %v: %w", resp.Error, debridModels.ErrNoData)
	}

	userData := resp.Data

	profile := &debridModels.Profile{
		Name:       tb.clientOptions.Name,
		Id:         userData.Id,
		Username:   userData.Email,
		Email:      userData.Email,
		Expiration: userData.PremiumExpiresAt,
	}

	switch userData.Plan {
	case apiModels.PlanEssential:
		profile.Type = "essential"
	case apiModels.PlanPro:
		profile.Type = "pro"
	case apiModels.PlanStandard:
		profile.Type = "standard"
	default:
		profile.Type = "free"
	}

	profile.Slots = 1
	if slots, ok := planSlots[profile.Type]; ok {
		profile.Slots = slots
	}
	profile.Slots += int(userData.AdditionalConcurrentSlots)

	tb.profile = profile

	return profile, nil
}

func (tb *Torbox) GetAccounts() *debridModels.Accounts {
	return tb.accounts
}
