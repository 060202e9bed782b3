package torbox

// Environment is a named TorBox deployment.
type Environment struct {
	Name    string
	BaseURL string
}

var Production = Environment{
	Name:    "production",
	BaseURL: "https://api.torbox.app/",
}

const DefaultAPIVersion = "v1"

const DefaultUserAgent = "torbox-go"
