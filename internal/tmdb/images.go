package tmdb

// Image URL helpers. TMDB returns bare paths like "/abc123.jpg"; the UI
// needs absolute URLs at a concrete size, with a placeholder when the
// upstream has no artwork.

const (
	posterSize   = "w500"
	backdropSize = "w1280"
	profileSize  = "w185"

	posterPlaceholder   = "https://via.placeholder.com/500x750?text=No+Poster"
	backdropPlaceholder = "https://via.placeholder.com/1280x720?text=No+Backdrop"
	profilePlaceholder  = "https://via.placeholder.com/185x278?text=No+Photo"
)

func imageURL(path *string, size, placeholder string) string {
	if path == nil || *path == "" {
		return placeholder
	}
	return imageBaseURL + "/" + size + *path
}

// PosterURL resolves a poster path to an absolute image URL.
func PosterURL(path *string) string {
	return imageURL(path, posterSize, posterPlaceholder)
}

// BackdropURL resolves a backdrop path to an absolute image URL.
func BackdropURL(path *string) string {
	return imageURL(path, backdropSize, backdropPlaceholder)
}

// ProfileURL resolves a cast/crew profile path to an absolute image URL.
func ProfileURL(path *string) string {
	return imageURL(path, profileSize, profilePlaceholder)
}
