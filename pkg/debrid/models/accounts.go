package models

import (
	"sync"

	"github.com/dylanmazurek/torbox-go/internal/config"
)

// Accounts remembers the download links issued for one debrid account so a
// file is not resolved twice while its link is still valid.
type Accounts struct {
	name string

	mu    sync.RWMutex
	links map[string]*DownloadLink
}

func NewAccounts(dc config.Debrid) *Accounts {
	return &Accounts{
		name:  dc.Name,
		links: make(map[string]*DownloadLink),
	}
}

func (a *Accounts) Name() string {
	return a.name
}

func (a *Accounts) SetDownloadLink(key string, link *DownloadLink) {
	if key == "" || link == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.links[key] = link
}

// GetDownloadLink returns a cached link, dropping it when expired.
func (a *Accounts) GetDownloadLink(key string) (*DownloadLink, bool) {
	a.mu.RLock()
	link, ok := a.links[key]
	a.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !link.Valid() {
		a.mu.Lock()
		delete(a.links, key)
		a.mu.Unlock()

		return nil, false
	}

	return link, true
}

func (a *Accounts) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.links = make(map[string]*DownloadLink)
}
