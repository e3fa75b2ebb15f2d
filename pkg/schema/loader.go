package schema

import (
	"context"
	"io/fs"
	"net/http"
	"time"
)

// Loader fetches raw schema documents from a Source.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions resolves the strategies a Loader may use. FileSystem backs
// SourceKindFS lookups. HTTP sources require either an explicit client or
// AllowHTTPFallback.
type LoaderOptions struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}
