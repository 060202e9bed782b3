package models

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

// Magnet is what gets submitted to a debrid: a magnet link, or the raw
// .torrent it was derived from.
type Magnet struct {
	Name     string
	InfoHash string
	Size     int64
	Link     string
	File     []byte
}

func (m *Magnet) IsTorrent() bool {
	return len(m.File) > 0
}

func ParseMagnet(link string) (*Magnet, error) {
	mu, err := metainfo.ParseMagnetUri(link)
	if err != nil {
		return nil, fmt.Errorf("invalid magnet: %w", err)
	}

	m := &Magnet{
		Name:     mu.DisplayName,
		InfoHash: strings.ToLower(mu.InfoHash.HexString()),
		Link:     link,
	}

	if xl := mu.Params.Get("xl"); xl != "" {
		m.Size, _ = strconv.ParseInt(xl, 10, 64)
	}

	return m, nil
}

// ParseTorrent reads a bencoded .torrent and builds the matching magnet.
func ParseTorrent(data []byte) (*Magnet, error) {
	mi, err := metainfo.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid torrent file: %w", err)
	}

	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("invalid torrent info: %w", err)
	}

	hash := mi.HashInfoBytes()
	mu := mi.Magnet(&hash, &info)

	return &Magnet{
		Name:     info.Name,
		InfoHash: strings.ToLower(hash.HexString()),
		Size:     info.TotalLength(),
		Link:     mu.String(),
		File:     data,
	}, nil
}

// ParseInput accepts a magnet link, a bare 40 character info hash, or a path
// to a .torrent file.
func ParseInput(input string) (*Magnet, error) {
	input = strings.TrimSpace(input)

	switch {
	case strings.HasPrefix(input, "magnet:"):
		return ParseMagnet(input)
	case isInfoHash(input):
		return ParseMagnet("magnet:?xt=urn:btih:" + strings.ToLower(input))
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("not a magnet, hash or readable torrent file: %w", err)
	}

	return ParseTorrent(data)
}

func isInfoHash(s string) bool {
	if len(s) != 40 {
		return false
	}

	_, err := hex.DecodeString(s)
	return err == nil
}
