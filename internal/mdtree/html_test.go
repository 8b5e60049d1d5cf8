package mdtree

import "testing"

func TestParseHTMLImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantKind htmlKind
		wantImgs []htmlImage
	}{
		{
			name:     "single image",
			input:    `<img src="a.png" alt="A" id="fig-a">`,
			wantKind: htmlImages,
			wantImgs: []htmlImage{{src: "a.png", alt: "A", id: "fig-a"}},
		},
		{
			name:     "centered paragraph with two images",
			input:    "<p align=\"center\">\n  <img src=\"a.png\">\n  <img src=\"b.png\">\n</p>",
			wantKind: htmlImages,
			wantImgs: []htmlImage{{src: "a.png"}, {src: "b.png"}},
		},
		{
			name:     "figure with caption",
			input:    "<figure><img src=\"c.svg\"><figcaption> Flow\n chart </figcaption></figure>",
			wantKind: htmlImages,
			wantImgs: []htmlImage{{src: "c.svg", caption: "Flow chart"}},
		},
		{name: "comment", input: "<!-- note -->", wantKind: htmlComment},
		{name: "image without src", input: `<img alt="x">`, wantKind: htmlOther},
		{name: "image beside text", input: `<p>Logo: <img src="a.png"></p>`, wantKind: htmlOther},
		{name: "other element", input: `<details><summary>More</summary></details>`, wantKind: htmlOther},
		{name: "empty wrapper", input: `<div></div>`, wantKind: htmlOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			imgs, kind := parseHTMLImages(tt.input)
			if kind != tt.wantKind {
				t.Fatalf("kind = %d, want %d", kind, tt.wantKind)
			}
			if len(imgs) != len(tt.wantImgs) {
				t.Fatalf("imgs = %+v, want %+v", imgs, tt.wantImgs)
			}
			for i := range imgs {
				if imgs[i] != tt.wantImgs[i] {
					t.Errorf("img %d = %+v, want %+v", i, imgs[i], tt.wantImgs[i])
				}
			}
		})
	}
}
