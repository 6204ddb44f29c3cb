// Package media holds the video and library catalogues shown next to the lesson materials.
package media

import (
	"regexp"
	"strings"

	"github.com/adrodovia/portal/core"
)

// TrimesterMisc selects the videos outside of any trimester.
const TrimesterMisc = "diversos"

var youtubeID = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:.*v=|.*/))([^&?]*)`)

type (
	Video struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Link        string `json:"link"`
	}

	LibraryItem struct {
		Title string `json:"title"`
		Type  string `json:"type"`
		Cover string `json:"cover"`
		Link  string `json:"link"`
	}
)

// ID returns the YouTube id of the video link, or "" when the link is not a YouTube one.
func (v Video) ID() string {
	return VideoID(v.Link)
}

// Thumbnail returns the medium quality YouTube thumbnail URL, or "".
func (v Video) Thumbnail() string {
	id := v.ID()
	if id == "" {
		return ""
	}
	return "https://img.youtube.com/vi/" + id + "/mqdefault.jpg"
}

// EmbedURL returns the autoplaying player URL for a YouTube id.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id + "?autoplay=1"
}

// VideoID extracts the id from youtu.be and youtube.com links.
func VideoID(link string) string {
	m := youtubeID.FindStringSubmatch(link)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// FilterVideos keeps the videos whose category matches the selected trimester.
// "all" keeps everything and "diversos" keeps the miscellaneous and extra categories.
func FilterVideos(videos []Video, selected string) []Video {
	if selected == core.TrimesterAll {
		return videos
	}
	filtered := make([]Video, 0, len(videos))
	for _, v := range videos {
		cat := strings.ToLower(v.Category)
		var ok bool
		if selected == TrimesterMisc {
			ok = strings.Contains(cat, "diverso") || strings.Contains(cat, "extra")
		} else {
			ok = strings.Contains(cat, selected)
		}
		if ok {
			filtered = append(filtered, v)
		}
	}
	return filtered
}
