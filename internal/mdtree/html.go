package mdtree

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlKind classifies a raw HTML fragment.
type htmlKind int

const (
	htmlOther   htmlKind = iota // markup with no doctree equivalent
	htmlComment                 // only comments and whitespace
	htmlImages                  // only images, optionally wrapped
)

// htmlImage is an <img> found in raw HTML.
type htmlImage struct {
	src     string
	alt     string
	id      string
	caption string // from an enclosing <figure>'s <figcaption>
}

// Wrappers that may surround images without changing their meaning.
var imageWrappers = map[atom.Atom]bool{
	atom.P:       true,
	atom.Div:     true,
	atom.Center:  true,
	atom.Figure:  true,
	atom.Picture: true,
	atom.A:       true,
}

// parseHTMLImages parses fragment and returns its images when the
// fragment holds nothing else.
func parseHTMLImages(fragment string) ([]htmlImage, htmlKind) {
	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, htmlOther
	}

	var imgs []htmlImage
	for _, n := range nodes {
		if !collectImages(n, "", &imgs) {
			return nil, htmlOther
		}
	}
	if len(imgs) == 0 {
		if onlyComments(nodes) {
			return nil, htmlComment
		}
		return nil, htmlOther
	}
	return imgs, htmlImages
}

// collectImages appends the images under n and reports whether n holds
// nothing but images, wrappers, comments and whitespace.
func collectImages(n *html.Node, caption string, imgs *[]htmlImage) bool {
	switch n.Type {
	case html.CommentNode:
		return true
	case html.TextNode:
		return strings.TrimSpace(n.Data) == ""
	case html.ElementNode:
	default:
		return false
	}

	switch {
	case n.DataAtom == atom.Img:
		img := htmlImage{
			src:     attr(n, "src"),
			alt:     attr(n, "alt"),
			id:      attr(n, "id"),
			caption: caption,
		}
		if img.src == "" {
			return false
		}
		*imgs = append(*imgs, img)
		return true
	case n.DataAtom == atom.Source:
		return true
	case n.DataAtom == atom.Figcaption:
		return true
	case imageWrappers[n.DataAtom]:
		if n.DataAtom == atom.Figure {
			caption = figcaption(n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !collectImages(c, caption, imgs) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func figcaption(figure *html.Node) string {
	for c := figure.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Figcaption {
			return strings.Join(strings.Fields(textContent(c)), " ")
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}

func onlyComments(nodes []*html.Node) bool {
	found := false
	for _, n := range nodes {
		switch {
		case n.Type == html.CommentNode:
			found = true
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
		default:
			return false
		}
	}
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
