// Package urltemplate splits endpoint URL templates into a static path and
// the query defaults declared after the first '?'.
package urltemplate

import (
	"fmt"
	"strings"

	"github.com/tristendillon/httpskin/core/models"
)

// InvalidURLError reports a template that cannot produce a request.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	if e.URL == "" {
		return "url is empty"
	}
	return fmt.Sprintf("invalid url %q: %s", e.URL, e.Reason)
}

// Parse splits raw on its first '?'. The suffix is read as key=value pairs
// joined by '&'; values are kept verbatim and in order of appearance.
func Parse(raw string) (models.UrlTemplate, error) {
	if raw == "" {
		return models.UrlTemplate{}, &InvalidURLError{}
	}

	path, query, found := strings.Cut(raw, "?")
	tpl := models.UrlTemplate{Path: path}
	if !found {
		return tpl, nil
	}

	for _, token := range strings.Split(query, "&") {
		if token == "" {
			continue
		}
		key, value, _ := strings.Cut(token, "=")
		if key == "" {
			return models.UrlTemplate{}, &InvalidURLError{URL: raw, Reason: fmt.Sprintf("query token %q has no name", token)}
		}
		tpl.Defaults = append(tpl.Defaults, models.QueryDefault{Key: key, Value: value})
	}

	return tpl, nil
}
