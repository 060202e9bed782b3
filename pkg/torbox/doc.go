// Package torbox is a client for the TorBox debrid API.
//
// A Client groups the API into services (Torrents, Usenet, WebDownloads,
// General, Notifications, User, RSSFeeds, Integrations, Queued). Every call
// goes through the same pipeline:
//
//	request id -> retry -> rate limit -> bearer token -> http.Client
//
// Usage:
//
//	client, err := torbox.New(
//		torbox.WithAccessToken(os.Getenv("TORBOX_API_KEY")),
//		torbox.WithRateLimit("250/minute"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Torrents.GetTorrentList(ctx, &models.ListParams{
//		BypassCache: models.Ptr(true),
//	})
//
// # Errors
//
// Missing required inputs return a *ValidationError listing every missing
// field before anything is sent. Non-2xx responses return an *APIError,
// network failures that persist after retries a *TransportError, and bodies
// that do not decode a *DeserializationError. Cancellation returns the
// context error. Use errors.As and errors.Is to tell them apart.
package torbox
