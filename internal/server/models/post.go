package models

// Post is a titled photo attachment of an entry. Images are ordered by the
// post-to-image link; posts are displayed by Order.
type Post struct {
	ID          string
	EntryID     string
	Title       string
	Description string
	Order       int
	Deleting    bool

	// ImageKeys is filled by reads that join post_images.
	ImageKeys []string
}
