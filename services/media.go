// services/media.go
package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"
)

const (
	mediaCacheSize   = 1024
	mediaFetchLimit  = 4
	mediaFetchWindow = 30 * time.Second
	maxImageBytes    = 10 << 20
)

// MediaService copies fixture image URLs into a Spaces bucket so migrated
// records stop pointing at third-party hosts. Rehosting is best-effort;
// callers keep the source URL on failure.
type MediaService struct {
	client     *s3.Client
	httpClient *http.Client
	bucket     string
	region     string
	MediaRoot  string
	cache      *lru.Cache
}

func NewMediaService(spacesKey, spacesSecret, region, bucket, mediaRoot string) (*MediaService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load Spaces config: %w", err)
	}

	cache, err := lru.New(mediaCacheSize)
	if err != nil {
		return nil, err
	}

	return &MediaService{
		client:     s3.NewFromConfig(cfg),
		httpClient: &http.Client{Timeout: mediaFetchWindow},
		bucket:     bucket,
		region:     region,
		MediaRoot:  strings.Trim(mediaRoot, "/"),
		cache:      cache,
	}, nil
}

// PublicURL is the CDN-facing URL for an object key.
func (s *MediaService) PublicURL(key string) string {
	return fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com/%s", s.bucket, s.region, key)
}

// ObjectKey derives a stable bucket key from a source URL. The same URL
// always maps to the same key, so re-running the migration overwrites
// instead of accumulating copies.
func ObjectKey(root, sourceURL string) string {
	sum := sha1.Sum([]byte(sourceURL))
	ext := path.Ext(strings.SplitN(path.Base(sourceURL), "?", 2)[0])
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}

	key := fmt.Sprintf("%x%s", sum, ext)
	if root == "" {
		return key
	}
	return root + "/" + key
}

// Rehost downloads one image and uploads it to the bucket, returning the
// hosted URL. Results are cached per source URL for the process lifetime.
func (s *MediaService) Rehost(ctx context.Context, sourceURL string) (string, error) {
	if cached, ok := s.cache.Get(sourceURL); ok {
		return cached.(string), nil
	}

	body, contentType, err := s.fetch(ctx, sourceURL)
	if err != nil {
		return "", err
	}

	key := ObjectKey(s.MediaRoot, sourceURL)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	hosted := s.PublicURL(key)
	s.cache.Add(sourceURL, hosted)
	return hosted, nil
}

// Prefetch warms the rehost cache with bounded parallelism. Failures are
// logged and left for the per-record Rehost call to report.
func (s *MediaService) Prefetch(ctx context.Context, sourceURLs []string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(mediaFetchLimit)

	seen := make(map[string]bool, len(sourceURLs))
	for _, url := range sourceURLs {
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true

		url := url
		g.Go(func() error {
			if _, err := s.Rehost(ctx, url); err != nil {
				slog.Warn("Media prefetch failed",
					slog.String("type", "sys"),
					slog.String("url", url),
					slog.Any("error", err))
			}
			return nil
		})
	}

	_ = g.Wait()
	slog.Info("Media prefetch complete",
		slog.String("type", "sys"),
		slog.Int("urls", len(seen)))
}

func (s *MediaService) fetch(ctx context.Context, sourceURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request for %s: %w", sourceURL, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch %s: %w", sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("fetch %s: status %d", sourceURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", sourceURL, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return body, contentType, nil
}

func (s *MediaService) GetBucket() string {
	return s.bucket
}

func (s *MediaService) GetRegion() string {
	return s.region
}
