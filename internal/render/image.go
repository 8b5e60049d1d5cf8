package render

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/alnah/go-typstwriter/doctree"
	"github.com/alnah/go-typstwriter/internal/escape"
)

// imageFormats are the extensions Typst's image element decodes.
var imageFormats = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".pdf": true,
}

// checkImageSource accepts relative and absolute paths and http(s) URLs.
// Remote URLs are passed through unfetched.
func checkImageSource(src string) (ext string, err error) {
	if strings.ContainsAny(src, "\x00\r\n") {
		return "", fmt.Errorf("%w: control character in %q", ErrInvalidImageSource, src)
	}
	if len(src) >= 2 && src[1] == ':' && isLetter(src[0]) {
		return "", fmt.Errorf("%w: drive-letter path %q", ErrInvalidImageSource, src)
	}
	if strings.Contains(src, `\`) {
		return "", fmt.Errorf("%w: backslash in %q (use forward slashes)", ErrInvalidImageSource, src)
	}

	u, err := url.Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImageSource, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "":
		return strings.ToLower(path.Ext(u.Path)), nil
	case "http", "https":
		if u.Host == "" {
			return "", fmt.Errorf("%w: URL without host %q", ErrInvalidImageSource, src)
		}
		return strings.ToLower(path.Ext(u.Path)), nil
	default:
		return "", fmt.Errorf("%w: scheme %q not allowed in %q", ErrInvalidImageSource, u.Scheme, src)
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// imageCall renders image(...) with the given extra arguments.
func (r *renderer) imageCall(img *doctree.Image, p doctree.Path, extra ...string) (string, error) {
	ext, err := checkImageSource(img.Source)
	if err != nil {
		return "", r.fail(p, img, img.Anchor, err)
	}
	if !imageFormats[ext] {
		r.warns.add(WarnImageFormat, p.String(), "image %q has unrecognized format %q", img.Source, ext)
	}

	src, err := escape.String(img.Source)
	if err != nil {
		return "", r.fail(p, img, img.Anchor, err)
	}
	args := []string{src}
	if img.Alt != "" {
		alt, err := escape.String(img.Alt)
		if err != nil {
			return "", r.fail(p, img, img.Anchor, err)
		}
		args = append(args, "alt: "+alt)
	}
	args = append(args, extra...)
	return "image(" + strings.Join(args, ", ") + ")", nil
}

func (r *renderer) blockImage(img *doctree.Image, p doctree.Path) (string, error) {
	call, err := r.imageCall(img, p)
	if err != nil {
		return "", err
	}
	num, numbered := r.numbers[img]
	if !numbered {
		return "#" + call, nil
	}
	caption, err := r.caption(r.cfg.Supplements.Figure, num, img.Caption, p)
	if err != nil {
		return "", err
	}
	s := "#figure(\n  " + call + ",\n  caption: [" + caption + "],\n  numbering: none,\n)"
	if a, ok := r.anchors[img]; ok {
		s += " " + escape.Label(a.ID)
	}
	return s, nil
}

func (r *renderer) inlineImage(img *doctree.Image, p doctree.Path) (string, error) {
	call, err := r.imageCall(img, p, "height: 1em")
	if err != nil {
		return "", err
	}
	s := "#box(" + call + ")"
	if a, ok := r.anchors[img]; ok {
		s += escape.Label(a.ID)
	}
	return s, nil
}
