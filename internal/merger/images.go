package merger

import "regexp"

// ImageToken is the placeholder Quiver writes in front of bundled image names.
const ImageToken = "quiver-image-url"

var imageRe = regexp.MustCompile(`!\[([^\]]*)\]\(` + regexp.QuoteMeta(ImageToken) + `/([^)\s]+)\)`)

// ImageRef is one ![alt](quiver-image-url/raw) reference.
type ImageRef struct {
	Alt string
	Raw string
}

// ScanImages returns the image references in text in the order they appear.
func ScanImages(text string) []ImageRef {
	matches := imageRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]ImageRef, 0, len(matches))
	for _, m := range matches {
		out = append(out, ImageRef{Alt: m[1], Raw: m[2]})
	}
	return out
}
