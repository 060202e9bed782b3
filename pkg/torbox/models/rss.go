package models

import "time"

// RSS feed types for AddRSSFeedRequest.RssType.
const (
	RssTypeTorrent = "torrent"
	RssTypeUsenet  = "usenet"
	RssTypeWebDl   = "webdl"
)

type AddRSSFeedRequest struct {
	Url            string  `json:"url"`
	Name           *string `json:"name,omitempty"`
	DoRegex        *string `json:"do_regex,omitempty"`
	DontRegex      *string `json:"dont_regex,omitempty"`
	DontOlderThan  *int    `json:"dont_older_than,omitempty"`
	PassCheck      *bool   `json:"pass_check,omitempty"`
	ScanInterval   *int    `json:"scan_interval,omitempty"`
	RssType        *string `json:"rss_type,omitempty"`
	TorrentSeeding *int    `json:"torrent_seeding,omitempty"`
}

type ControlRSSFeedRequest struct {
	RssFeedId int64  `json:"rss_feed_id"`
	Operation string `json:"operation"`
}

type ModifyRSSFeedRequest struct {
	RssFeedId      int64   `json:"rss_feed_id"`
	Name           *string `json:"name,omitempty"`
	DoRegex        *string `json:"do_regex,omitempty"`
	DontRegex      *string `json:"dont_regex,omitempty"`
	DontOlderThan  *int    `json:"dont_older_than,omitempty"`
	PassCheck      *bool   `json:"pass_check,omitempty"`
	ScanInterval   *int    `json:"scan_interval,omitempty"`
	RssType        *string `json:"rss_type,omitempty"`
	TorrentSeeding *int    `json:"torrent_seeding,omitempty"`
}

type RSSFeed struct {
	Id             int64      `json:"id"`
	AuthId         string     `json:"auth_id"`
	Name           string     `json:"name"`
	Url            string     `json:"url"`
	DoRegex        string     `json:"do_regex"`
	DontRegex      string     `json:"dont_regex"`
	DontOlderThan  int        `json:"dont_older_than"`
	PassCheck      bool       `json:"pass_check"`
	ScanInterval   int        `json:"scan_interval"`
	RssType        string     `json:"rss_type"`
	TorrentSeeding int        `json:"torrent_seeding"`
	Status         string     `json:"status"`
	StatusMessage  *string    `json:"status_message"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastCheckedAt  *time.Time `json:"last_checked_at"`
}

type RSSFeedParams struct {
	Id *int64 `url:"id,omitempty"`
}

type RSSFeedItemsParams struct {
	RssFeedId *int64 `url:"rss_feed_id,omitempty"`
}

type RSSFeedItem struct {
	Id        int64     `json:"id"`
	RssFeedId int64     `json:"rss_feed_id"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Hash      *string   `json:"hash"`
	Size      int64     `json:"size"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
