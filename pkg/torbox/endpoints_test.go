package torbox_test

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanmazurek/torbox-go/pkg/torbox"
	"github.com/dylanmazurek/torbox-go/pkg/torbox/models"
)

func TestEndpointRoutes(t *testing.T) {
	srv := newStub(t, nil)
	client := newClient(t, srv)

	job := &models.QueueIntegrationRequest{Id: 1, Type: "torrent"}

	tests := []struct {
		name   string
		method string
		path   string
		call   func(ctx context.Context) error
	}{
		{"GetStats", http.MethodGet, "/v1/api/stats", func(ctx context.Context) error {
			_, err := client.General.GetStats(ctx)
			return err
		}},
		{"GetChangelogsJSON", http.MethodGet, "/v1/api/changelogs/json", func(ctx context.Context) error {
			_, err := client.General.GetChangelogsJSON(ctx)
			return err
		}},
		{"GetSpeedtestFiles", http.MethodGet, "/v1/api/speedtest", func(ctx context.Context) error {
			return client.General.GetSpeedtestFiles(ctx, nil)
		}},
		{"CreateTorrent", http.MethodPost, "/v1/api/torrents/createtorrent", func(ctx context.Context) error {
			_, err := client.Torrents.CreateTorrent(ctx, &models.CreateTorrentRequest{Magnet: models.Ptr("magnet:?xt=urn:btih:abc")})
			return err
		}},
		{"ControlTorrent", http.MethodPost, "/v1/api/torrents/controltorrent", func(ctx context.Context) error {
			_, err := client.Torrents.ControlTorrent(ctx, &models.ControlTorrentRequest{Operation: models.OperationPause})
			return err
		}},
		{"RequestDownloadLink", http.MethodGet, "/v1/api/torrents/requestdl", func(ctx context.Context) error {
			_, err := client.Torrents.RequestDownloadLink(ctx, nil)
			return err
		}},
		{"GetTorrentList", http.MethodGet, "/v1/api/torrents/mylist", func(ctx context.Context) error {
			_, err := client.Torrents.GetTorrentList(ctx, nil)
			return err
		}},
		{"GetTorrentCachedAvailability", http.MethodGet, "/v1/api/torrents/checkcached", func(ctx context.Context) error {
			_, err := client.Torrents.GetTorrentCachedAvailability(ctx, nil)
			return err
		}},
		{"ExportTorrentData", http.MethodGet, "/v1/api/torrents/exportdata", func(ctx context.Context) error {
			_, err := client.Torrents.ExportTorrentData(ctx, nil)
			return err
		}},
		{"GetTorrentInfo", http.MethodGet, "/v1/api/torrents/torrentinfo", func(ctx context.Context) error {
			_, err := client.Torrents.GetTorrentInfo(ctx, nil)
			return err
		}},
		{"PostTorrentInfo", http.MethodPost, "/v1/api/torrents/torrentinfo", func(ctx context.Context) error {
			_, err := client.Torrents.PostTorrentInfo(ctx, &models.TorrentInfoRequest{Hash: models.Ptr("abc")})
			return err
		}},
		{"CreateUsenetDownload", http.MethodPost, "/v1/api/usenet/createusenetdownload", func(ctx context.Context) error {
			_, err := client.Usenet.CreateUsenetDownload(ctx, &models.CreateUsenetDownloadRequest{Link: models.Ptr("https://example.com/a.nzb")})
			return err
		}},
		{"ControlUsenetDownload", http.MethodPost, "/v1/api/usenet/controlusenetdownload", func(ctx context.Context) error {
			return client.Usenet.ControlUsenetDownload(ctx, &models.ControlUsenetDownloadRequest{Operation: models.OperationDelete})
		}},
		{"Usenet.RequestDownloadLink", http.MethodGet, "/v1/api/usenet/requestdl", func(ctx context.Context) error {
			_, err := client.Usenet.RequestDownloadLink(ctx, nil)
			return err
		}},
		{"GetUsenetList", http.MethodGet, "/v1/api/usenet/mylist", func(ctx context.Context) error {
			_, err := client.Usenet.GetUsenetList(ctx, nil)
			return err
		}},
		{"GetUsenetCachedAvailability", http.MethodGet, "/v1/api/usenet/checkcached", func(ctx context.Context) error {
			_, err := client.Usenet.GetUsenetCachedAvailability(ctx, nil)
			return err
		}},
		{"CreateWebDownload", http.MethodPost, "/v1/api/webdl/createwebdownload", func(ctx context.Context) error {
			_, err := client.WebDownloads.CreateWebDownload(ctx, &models.CreateWebDownloadRequest{Link: models.Ptr("https://example.com/f")})
			return err
		}},
		{"ControlWebDownload", http.MethodPost, "/v1/api/webdl/controlwebdownload", func(ctx context.Context) error {
			return client.WebDownloads.ControlWebDownload(ctx, &models.ControlWebDownloadRequest{Operation: models.OperationDelete}, nil)
		}},
		{"WebDownloads.RequestDownloadLink", http.MethodGet, "/v1/api/webdl/requestdl", func(ctx context.Context) error {
			_, err := client.WebDownloads.RequestDownloadLink(ctx, nil)
			return err
		}},
		{"GetWebDownloadList", http.MethodGet, "/v1/api/webdl/mylist", func(ctx context.Context) error {
			_, err := client.WebDownloads.GetWebDownloadList(ctx, nil)
			return err
		}},
		{"GetWebDownloadCachedAvailability", http.MethodGet, "/v1/api/webdl/checkcached", func(ctx context.Context) error {
			_, err := client.WebDownloads.GetWebDownloadCachedAvailability(ctx, nil)
			return err
		}},
		{"GetHosterList", http.MethodGet, "/v1/api/webdl/hosters", func(ctx context.Context) error {
			_, err := client.WebDownloads.GetHosterList(ctx)
			return err
		}},
		{"GetNotificationFeed", http.MethodGet, "/v1/api/notifications/mynotifications", func(ctx context.Context) error {
			_, err := client.Notifications.GetNotificationFeed(ctx)
			return err
		}},
		{"ClearAllNotifications", http.MethodPost, "/v1/api/notifications/clear", func(ctx context.Context) error {
			return client.Notifications.ClearAllNotifications(ctx)
		}},
		{"ClearSingleNotification", http.MethodPost, "/v1/api/notifications/clear/17", func(ctx context.Context) error {
			return client.Notifications.ClearSingleNotification(ctx, "17")
		}},
		{"SendTestNotification", http.MethodPost, "/v1/api/notifications/test", func(ctx context.Context) error {
			return client.Notifications.SendTestNotification(ctx)
		}},
		{"RefreshAPIToken", http.MethodPost, "/v1/api/user/refreshtoken", func(ctx context.Context) error {
			_, err := client.User.RefreshAPIToken(ctx, &models.RefreshTokenRequest{SessionToken: "s"})
			return err
		}},
		{"GetUserData", http.MethodGet, "/v1/api/user/me", func(ctx context.Context) error {
			_, err := client.User.GetUserData(ctx, nil)
			return err
		}},
		{"AddReferralToAccount", http.MethodPost, "/v1/api/user/addreferral", func(ctx context.Context) error {
			_, err := client.User.AddReferralToAccount(ctx, models.Ptr("ref"))
			return err
		}},
		{"GetConfirmationCode", http.MethodGet, "/v1/api/user/getconfirmation", func(ctx context.Context) error {
			return client.User.GetConfirmationCode(ctx)
		}},
		{"AddRSSFeed", http.MethodPost, "/v1/api/rss/addrss", func(ctx context.Context) error {
			return client.RSSFeeds.AddRSSFeed(ctx, &models.AddRSSFeedRequest{Url: "https://example.com/rss"})
		}},
		{"ControlRSSFeed", http.MethodPost, "/v1/api/rss/controlrss", func(ctx context.Context) error {
			return client.RSSFeeds.ControlRSSFeed(ctx, &models.ControlRSSFeedRequest{RssFeedId: 1, Operation: models.OperationPause})
		}},
		{"ModifyRSSFeed", http.MethodPost, "/v1/api/rss/modifyrss", func(ctx context.Context) error {
			return client.RSSFeeds.ModifyRSSFeed(ctx, &models.ModifyRSSFeedRequest{RssFeedId: 1})
		}},
		{"GetUserRSSFeeds", http.MethodGet, "/v1/api/rss/getfeeds", func(ctx context.Context) error {
			_, err := client.RSSFeeds.GetUserRSSFeeds(ctx, nil)
			return err
		}},
		{"GetRSSFeedItems", http.MethodGet, "/v1/api/rss/getfeeditems", func(ctx context.Context) error {
			_, err := client.RSSFeeds.GetRSSFeedItems(ctx, nil)
			return err
		}},
		{"AuthenticateOAuth", http.MethodGet, "/v1/api/integration/oauth/google", func(ctx context.Context) error {
			return client.Integrations.AuthenticateOAuth(ctx, models.ProviderGoogle)
		}},
		{"QueueGoogleDrive", http.MethodPost, "/v1/api/integration/googledrive", func(ctx context.Context) error {
			return client.Integrations.QueueGoogleDrive(ctx, job)
		}},
		{"QueuePixeldrain", http.MethodPost, "/v1/api/integration/pixeldrain", func(ctx context.Context) error {
			return client.Integrations.QueuePixeldrain(ctx, job)
		}},
		{"QueueOnedrive", http.MethodPost, "/v1/api/integration/onedrive", func(ctx context.Context) error {
			return client.Integrations.QueueOnedrive(ctx, job)
		}},
		{"QueueGofile", http.MethodPost, "/v1/api/integration/gofile", func(ctx context.Context) error {
			return client.Integrations.QueueGofile(ctx, job)
		}},
		{"Queue1Fichier", http.MethodPost, "/v1/api/integration/1fichier", func(ctx context.Context) error {
			return client.Integrations.Queue1Fichier(ctx, job)
		}},
		{"GetAllJobs", http.MethodGet, "/v1/api/integration/jobs", func(ctx context.Context) error {
			_, err := client.Integrations.GetAllJobs(ctx)
			return err
		}},
		{"GetSpecificJob", http.MethodGet, "/v1/api/integration/job/99", func(ctx context.Context) error {
			_, err := client.Integrations.GetSpecificJob(ctx, "99")
			return err
		}},
		{"CancelSpecificJob", http.MethodDelete, "/v1/api/integration/job/99", func(ctx context.Context) error {
			return client.Integrations.CancelSpecificJob(ctx, "99")
		}},
		{"GetAllJobsByHash", http.MethodGet, "/v1/api/integration/jobs/abc", func(ctx context.Context) error {
			_, err := client.Integrations.GetAllJobsByHash(ctx, "abc")
			return err
		}},
		{"GetQueuedDownloads", http.MethodGet, "/v1/api/queued/getqueued", func(ctx context.Context) error {
			_, err := client.Queued.GetQueuedDownloads(ctx, nil)
			return err
		}},
		{"ControlQueuedDownloads", http.MethodPost, "/v1/api/queued/controlqueued", func(ctx context.Context) error {
			return client.Queued.ControlQueuedDownloads(ctx, &models.ControlQueuedRequest{Operation: models.OperationStart})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call(context.Background()))

			req := srv.last(t)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
		})
	}
}

func TestCreateTorrentMultipart(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"detail":"Successfully added torrent.","data":{"torrent_id":5,"hash":"abc","auth_id":"u"}}`)
	})
	client := newClient(t, srv)

	resp, err := client.Torrents.CreateTorrent(context.Background(), &models.CreateTorrentRequest{
		File:     models.NewUpload("sintel.torrent", []byte("d4:infod4:name6:sintelee")),
		Name:     models.Ptr("Sintel"),
		Seed:     models.Ptr(models.SeedNever),
		AllowZip: models.Ptr(false),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Data)
	assert.EqualValues(t, 5, resp.Data.Id())

	parts, filenames := readMultipart(t, srv.last(t))
	assert.Equal(t, map[string]string{
		"file":      "d4:infod4:name6:sintelee",
		"name":      "Sintel",
		"seed":      "3",
		"allow_zip": "false",
	}, parts)
	assert.Equal(t, map[string]string{"file": "sintel.torrent"}, filenames)
}

func TestControlTorrentJSON(t *testing.T) {
	srv := newStub(t, nil)
	client := newClient(t, srv)

	resp, err := client.Torrents.ControlTorrent(context.Background(), &models.ControlTorrentRequest{
		TorrentId: models.Ptr(int64(12)),
		Operation: models.OperationReannounce,
	})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	req := srv.last(t)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, map[string]any{"torrent_id": float64(12), "operation": "reannounce"}, decodeBody(t, req.Body))
}

func TestRequestDownloadLinkQuery(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":"https://cdn.torbox.app/file"}`)
	})
	client := newClient(t, srv)

	resp, err := client.Torrents.RequestDownloadLink(context.Background(), &models.TorrentDownloadParams{
		Token:     models.Ptr(testToken),
		TorrentId: models.Ptr(int64(5)),
		FileId:    models.Ptr(int64(0)),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.torbox.app/file", *resp.Data)

	q := srv.last(t).Query
	assert.Equal(t, []string{testToken}, q["token"])
	assert.Equal(t, []string{"5"}, q["torrent_id"])
	assert.Equal(t, []string{"0"}, q["file_id"])
	assert.NotContains(t, q, "zip_link")
	assert.NotContains(t, q, "user_ip")
	assert.NotContains(t, q, "redirect")
}

func TestCachedAvailabilityQuery(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"aaa":{"name":"A","size":1,"hash":"aaa"}}}`)
	})
	client := newClient(t, srv)

	resp, err := client.Torrents.GetTorrentCachedAvailability(context.Background(), &models.CachedParams{
		Hash:   []string{"aaa", "bbb"},
		Format: models.Ptr(models.CachedFormatObject),
	})
	require.NoError(t, err)

	assert.True(t, resp.Data.Has("aaa"))
	assert.False(t, resp.Data.Has("bbb"))

	q := srv.last(t).Query
	assert.Equal(t, []string{"aaa,bbb"}, q["hash"])
	assert.Equal(t, []string{"object"}, q["format"])
	assert.NotContains(t, q, "list_files")
}

func TestGetTorrent(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"id":5,"hash":"abc","name":"Sintel","download_state":"cached","download_finished":true,"files":[{"id":0,"name":"Sintel/Sintel.mkv","short_name":"Sintel.mkv","size":100}]}}`)
	})
	client := newClient(t, srv)

	resp, err := client.Torrents.GetTorrent(context.Background(), 5, true)
	require.NoError(t, err)

	require.NotNil(t, resp.Data)
	assert.EqualValues(t, 5, resp.Data.Id)
	require.Len(t, resp.Data.Files, 1)
	assert.Equal(t, "Sintel.mkv", resp.Data.Files[0].ShortName)

	q := srv.last(t).Query
	assert.Equal(t, []string{"5"}, q["id"])
	assert.Equal(t, []string{"true"}, q["bypass_cache"])

	_, err = client.Torrents.GetTorrent(context.Background(), 0, false)
	var validationErr *torbox.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"id"}, validationErr.Fields())
}

func TestGetTorrentListDecodesQueuedIds(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":[{"id":1,"name":"a"},{"queued_id":2,"name":"b"}]}`)
	})
	client := newClient(t, srv)

	resp, err := client.Torrents.GetTorrentList(context.Background(), &models.ListParams{
		Offset: models.Ptr(0),
		Limit:  models.Ptr(100),
	})
	require.NoError(t, err)

	require.Len(t, *resp.Data, 2)
	assert.EqualValues(t, 1, (*resp.Data)[0].Id)
	assert.EqualValues(t, 2, (*resp.Data)[1].Id)

	q := srv.last(t).Query
	assert.Equal(t, []string{"0"}, q["offset"])
	assert.Equal(t, []string{"100"}, q["limit"])
	assert.NotContains(t, q, "bypass_cache")
}

func TestControlWebDownloadQueryAndBody(t *testing.T) {
	srv := newStub(t, nil)
	client := newClient(t, srv)

	err := client.WebDownloads.ControlWebDownload(context.Background(),
		&models.ControlWebDownloadRequest{WebId: models.Ptr(int64(3)), Operation: models.OperationDelete},
		&models.ListParams{BypassCache: models.Ptr(true)},
	)
	require.NoError(t, err)

	req := srv.last(t)
	assert.Equal(t, []string{"true"}, req.Query["bypass_cache"])
	assert.Equal(t, map[string]any{"webdl_id": float64(3), "operation": "delete"}, decodeBody(t, req.Body))
}

func TestCreateUsenetDownloadUpload(t *testing.T) {
	srv := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"usenetdownload_id":"77","hash":"h"}}`)
	})
	client := newClient(t, srv)

	resp, err := client.Usenet.CreateUsenetDownload(context.Background(), &models.CreateUsenetDownloadRequest{
		File: models.NewUpload("show.nzb", []byte("<nzb/>")),
	})
	require.NoError(t, err)

	assert.Equal(t, "77", *resp.Data.UsenetDownloadId)

	parts, filenames := readMultipart(t, srv.last(t))
	assert.Equal(t, map[string]string{"file": "<nzb/>"}, parts)
	assert.Equal(t, map[string]string{"file": "show.nzb"}, filenames)
}

func TestDownloadPermalink(t *testing.T) {
	srv := newStub(t, nil)
	client := newClient(t, srv)

	link, err := client.Torrents.DownloadPermalink(5, models.Ptr(int64(2)), false)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, srv.URL+"/v1/api/torrents/requestdl?"))
	assert.Equal(t, url.Values{
		"token":      {testToken},
		"torrent_id": {"5"},
		"file_id":    {"2"},
		"redirect":   {"true"},
	}, u.Query())

	link, err = client.Usenet.DownloadPermalink(9, nil, true)
	require.NoError(t, err)
	u, err = url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "9", u.Query().Get("usenet_id"))
	assert.Equal(t, "true", u.Query().Get("zip_link"))

	link, err = client.WebDownloads.DownloadPermalink(4, nil, false)
	require.NoError(t, err)
	u, err = url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "4", u.Query().Get("web_id"))

	assert.Zero(t, srv.count())

	client.SetAccessToken("")
	_, err = client.Torrents.DownloadPermalink(0, nil, false)

	var validationErr *torbox.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"token", "torrent_id"}, validationErr.Fields())
}

func readMultipart(t *testing.T, r recorded) (map[string]string, map[string]string) {
	t.Helper()

	parts := map[string]string{}
	filenames := map[string]string{}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !assert.NoError(t, err) || !assert.Equal(t, "multipart/form-data", mediaType) {
		return parts, filenames
	}

	reader := multipart.NewReader(bytes.NewReader(r.Body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}

		data, err := io.ReadAll(part)
		assert.NoError(t, err)

		parts[part.FormName()] = string(data)
		if part.FileName() != "" {
			filenames[part.FormName()] = part.FileName()
		}
	}

	return parts, filenames
}
