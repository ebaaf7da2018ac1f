package ocr

import (
	"net/url"
	"path"
	"strconv"

	"github.com/user/ocrbot/internal/errs"
)

const fallbackBase = "image"

// Namer assigns collision-safe output names within one batch. The first
// URL with a given path basename gets index 0, the next 1, and so on.
type Namer struct {
	next map[string]int
}

// NewNamer returns a Namer with an empty counter.
func NewNamer() *Namer {
	return &Namer{next: make(map[string]int)}
}

// Name returns "{index}_{basename}.txt" for rawURL.
func (n *Namer) Name(rawURL string) (string, error) {
	base, err := Basename(rawURL)
	if err != nil {
		return "", err
	}
	i := n.next[base]
	n.next[base] = i + 1
	return strconv.Itoa(i) + "_" + base + ".txt", nil
}

// Basename returns the last element of rawURL's path. Only absolute http
// and https URLs are accepted.
func Basename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errs.Wrapf(err, errs.InvalidInput, "invalid URL %q", rawURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errs.Newf(errs.InvalidInput, "unsupported URL %q", rawURL)
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return fallbackBase, nil
	}
	return base, nil
}
