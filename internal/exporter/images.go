package exporter

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"contestdump/internal/fileutil"
	"contestdump/internal/logging"
	"contestdump/internal/services"
)

// mediaHrefs collects banner, logo and photo hrefs from the raw payloads in
// contest, organization, team order.
func mediaHrefs(payloads payloadSet) []string {
	var hrefs []string
	collect := func(result gjson.Result) {
		result.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				value.ForEach(func(_, inner gjson.Result) bool {
					if href := inner.String(); href != "" {
						hrefs = append(hrefs, href)
					}
					return true
				})
				return true
			}
			if href := value.String(); href != "" {
				hrefs = append(hrefs, href)
			}
			return true
		})
	}
	collect(gjson.GetBytes(payloads["contest.json"], "banner.#.href"))
	collect(gjson.GetBytes(payloads["organizations.json"], "#.logo.#.href"))
	collect(gjson.GetBytes(payloads["teams.json"], "#.photo.#.href"))
	return hrefs
}

// MediaPath maps an href to its mirror location below imagesDir. Hrefs that
// would escape imagesDir are rejected.
func MediaPath(imagesDir, href string) (string, error) {
	rel := href
	if parsed, err := url.Parse(href); err == nil && parsed.IsAbs() {
		rel = parsed.Path
	}
	rel = strings.TrimLeft(filepath.FromSlash(rel), string(filepath.Separator))
	cleaned := filepath.Clean(rel)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", services.Wrap(services.ErrMapping, "images", "resolve path", fmt.Sprintf("href %q escapes the images directory", href), nil)
	}
	return filepath.Join(imagesDir, cleaned), nil
}

// dumpImages downloads every referenced image. Any failure is fatal.
func (e *Exporter) dumpImages(ctx context.Context, payloads payloadSet, imagesDir string) (int, error) {
	logger := logging.WithContext(ctx, e.logger)
	count := 0
	for _, href := range mediaHrefs(payloads) {
		target, err := MediaPath(imagesDir, href)
		if err != nil {
			return count, err
		}
		logger.Info("download image", logging.String("href", href), logging.String("dist", target))
		body, err := e.client.FetchMedia(ctx, href)
		if err != nil {
			return count, err
		}
		if err := fileutil.WriteFile(target, body); err != nil {
			return count, services.Wrap(services.ErrTransport, "images", "persist", href, err)
		}
		count++
	}
	return count, nil
}
