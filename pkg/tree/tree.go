package tree

// Node is one topic of a mind-map document as returned by the
// document-analysis backend. Children are ordered; their order decides the
// left-to-right placement after layout.
type Node struct {
	ID       string  `json:"id"`
	Topic    string  `json:"topic"`
	Summary  string  `json:"summary"`
	ImageURL *string `json:"image_url"`
	Children []*Node `json:"children,omitempty"`
}

// Image returns the image URL or "" when the document carries null.
func (n *Node) Image() string {
	if n == nil || n.ImageURL == nil {
		return ""
	}
	return *n.ImageURL
}
