package models

import (
	"encoding/json"
	"mime"
	"os"
	"path/filepath"
)

// Response is the envelope every TorBox JSON endpoint returns.
type Response[T any] struct {
	Success bool   `json:"success"`
	Error   any    `json:"error"`
	Detail  string `json:"detail,omitempty"`

	Data *T `json:"data,omitempty"`
}

// ErrorCode returns the machine readable error, if the service sent one.
func (r *Response[T]) ErrorCode() string {
	if s, ok := r.Error.(string); ok {
		return s
	}

	return ""
}

// Envelope is a response whose data is left undecoded.
type Envelope = Response[json.RawMessage]

type DownloadLinkResponse = Response[string]

type CreateTorrentResponse = Response[CreateTorrentData]

type TorrentListResponse = Response[[]Torrent]

type TorrentResponse = Response[Torrent]

type UserResponse = Response[User]

// Upload is a file sent as a multipart part.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func NewUpload(name string, data []byte) *Upload {
	return &Upload{Name: name, Data: data}
}

// OpenUpload reads a file from disk. The content type is guessed from the
// extension.
func OpenUpload(path string) (*Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Upload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

func (u Upload) FormFileName() string {
	return u.Name
}

func (u Upload) FormFileContentType() string {
	if u.ContentType != "" {
		return u.ContentType
	}

	if filepath.Ext(u.Name) == ".torrent" {
		return "application/x-bittorrent"
	}

	return "application/octet-stream"
}

func (u Upload) FormFileContent() []byte {
	return u.Data
}

// Ptr returns a pointer to v, for optional request fields.
func Ptr[T any](v T) *T {
	return &v
}

// Operations accepted by the control endpoints.
const (
	OperationReannounce = "reannounce"
	OperationDelete     = "delete"
	OperationResume     = "resume"
	OperationPause      = "pause"
	OperationEnable     = "enable"
	OperationDisable    = "disable"
	OperationStart      = "start"
)

// ListParams filters the mylist endpoints.
type ListParams struct {
	BypassCache *bool  `url:"bypass_cache,omitempty"`
	Id          *int64 `url:"id,omitempty"`
	Offset      *int   `url:"offset,omitempty"`
	Limit       *int   `url:"limit,omitempty"`
}

// CachedParams checks one or more hashes against the cache.
type CachedParams struct {
	Hash      []string `url:"hash,comma,omitempty"`
	Format    *string  `url:"format,omitempty"`
	ListFiles *bool    `url:"list_files,omitempty"`
}

const (
	CachedFormatObject = "object"
	CachedFormatList   = "list"
)

// DownloadFile is a file inside a torrent, usenet or web download.
type DownloadFile struct {
	Id           int64   `json:"id"`
	Md5          *string `json:"md5"`
	Hash         string  `json:"hash"`
	Name         string  `json:"name"`
	Size         int64   `json:"size"`
	Zipped       bool    `json:"zipped"`
	S3Path       string  `json:"s3_path"`
	Infected     bool    `json:"infected"`
	Mimetype     string  `json:"mimetype"`
	ShortName    string  `json:"short_name"`
	AbsolutePath string  `json:"absolute_path"`
}

type CachedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type CachedItem struct {
	Name  string       `json:"name"`
	Size  int64        `json:"size"`
	Hash  string       `json:"hash"`
	Files []CachedFile `json:"files,omitempty"`
}

// CachedAvailability is keyed by hash. The service answers with an object
// or a list depending on the requested format; both decode into Items.
type CachedAvailability struct {
	Items map[string]CachedItem
}

func (c *CachedAvailability) UnmarshalJSON(d []byte) error {
	c.Items = make(map[string]CachedItem)

	var list []CachedItem
	if err := json.Unmarshal(d, &list); err == nil {
		for _, item := range list {
			c.Items[item.Hash] = item
		}
		return nil
	}

	var obj map[string]CachedItem
	if err := json.Unmarshal(d, &obj); err != nil {
		return err
	}

	for hash, item := range obj {
		if item.Hash == "" {
			item.Hash = hash
		}
		c.Items[hash] = item
	}

	return nil
}

func (c CachedAvailability) MarshalJSON() ([]byte, error) {
	if c.Items == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(c.Items)
}

// Has reports whether hash is cached.
func (c *CachedAvailability) Has(hash string) bool {
	if c == nil {
		return false
	}

	_, ok := c.Items[hash]
	return ok
}
