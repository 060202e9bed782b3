package models

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylanmazurek/torbox-go/internal/config"
)

func TestParseMagnet(t *testing.T) {
	m, err := ParseMagnet("magnet:?xt=urn:btih:08ADA5A7A6183AAE1E09D831DF6748D566095A10&dn=Sintel&xl=129241752")
	require.NoError(t, err)

	assert.Equal(t, "Sintel", m.Name)
	assert.Equal(t, "08ada5a7a6183aae1e09d831df6748d566095a10", m.InfoHash)
	assert.Equal(t, int64(129241752), m.Size)
	assert.False(t, m.IsTorrent())

	_, err = ParseMagnet("https://example.com/file.torrent")
	assert.Error(t, err)
}

func buildTorrent(t *testing.T) []byte {
	t.Helper()

	info := metainfo.Info{
		Name:        "hello.txt",
		PieceLength: 16384,
		Length:      5,
		Pieces:      make([]byte, 20),
	}
	infoBytes, err := bencode.Marshal(info)
	require.NoError(t, err)

	mi := metainfo.MetaInfo{InfoBytes: infoBytes}

	var buf bytes.Buffer
	require.NoError(t, mi.Write(&buf))

	return buf.Bytes()
}

func TestParseTorrent(t *testing.T) {
	data := buildTorrent(t)

	m, err := ParseTorrent(data)
	require.NoError(t, err)

	mi, err := metainfo.Load(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "hello.txt", m.Name)
	assert.Equal(t, int64(5), m.Size)
	assert.Equal(t, mi.HashInfoBytes().HexString(), m.InfoHash)
	assert.True(t, m.IsTorrent())
	assert.Contains(t, m.Link, "urn:btih:"+m.InfoHash)

	_, err = ParseTorrent([]byte("not bencode"))
	assert.Error(t, err)
}

func TestParseInput(t *testing.T) {
	m, err := ParseInput("  08ada5a7a6183aae1e09d831df6748d566095a10 ")
	require.NoError(t, err)
	assert.Equal(t, "08ada5a7a6183aae1e09d831df6748d566095a10", m.InfoHash)

	path := filepath.Join(t.TempDir(), "hello.torrent")
	require.NoError(t, os.WriteFile(path, buildTorrent(t), 0o644))

	m, err = ParseInput(path)
	require.NoError(t, err)
	assert.Equal(t, "hello.txt", m.Name)

	_, err = ParseInput(filepath.Join(t.TempDir(), "missing.torrent"))
	assert.Error(t, err)
}

func TestGetFilesSorted(t *testing.T) {
	tr := &DebridTorrent{Files: map[string]File{
		"b": {Path: "dir/b.mkv"},
		"a": {Path: "dir/a.mkv"},
	}}

	files := tr.GetFiles()
	require.Len(t, files, 2)
	assert.Equal(t, "dir/a.mkv", files[0].Path)
}

func TestAccountsLinkCache(t *testing.T) {
	a := NewAccounts(config.Debrid{Name: "torbox"})
	assert.Equal(t, "torbox", a.Name())

	a.SetDownloadLink("torbox://1/1", &DownloadLink{DownloadLink: "https://cdn/1", ExpiresAt: time.Now().Add(time.Hour)})
	a.SetDownloadLink("torbox://1/2", &DownloadLink{DownloadLink: "https://cdn/2", ExpiresAt: time.Now().Add(-time.Minute)})
	a.SetDownloadLink("", &DownloadLink{DownloadLink: "ignored"})

	link, ok := a.GetDownloadLink("torbox://1/1")
	require.True(t, ok)
	assert.Equal(t, "https://cdn/1", link.DownloadLink)

	_, ok = a.GetDownloadLink("torbox://1/2")
	assert.False(t, ok, "expired links are dropped")

	a.Reset()
	_, ok = a.GetDownloadLink("torbox://1/1")
	assert.False(t, ok)
}

func TestDownloadLinkValid(t *testing.T) {
	var nilLink *DownloadLink
	assert.False(t, nilLink.Valid())
	assert.False(t, (&DownloadLink{}).Valid())
	assert.True(t, (&DownloadLink{DownloadLink: "x"}).Valid())
}
