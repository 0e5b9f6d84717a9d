package webhook

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// VideoInfo is what the extension's content script reports for GET_VIDEO_INFO.
type VideoInfo struct {
	URL     string `json:"url"`
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
}

var (
	youtubeTitleSuffix   = regexp.MustCompile(`(?i)\s*- YouTube\s*$`)
	unsafeFilenameChars  = regexp.MustCompile(`[\\/:*?"<>|]+`)
	transcriptTimeLayout = "200601021504"
)

func ParseVideoInfo(rawURL, title string) VideoInfo {
	return VideoInfo{
		URL:     rawURL,
		VideoID: VideoIDFromURL(rawURL),
		Title:   youtubeTitleSuffix.ReplaceAllString(title, ""),
	}
}

// VideoIDFromURL understands youtu.be/<id>, /shorts/<id> and ?v=<id>; it returns "" otherwise.
func VideoIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	segments := strings.Split(u.Path, "/")
	if u.Hostname() == "youtu.be" {
		if len(segments) > 1 {
			return segments[1]
		}
		return ""
	}
	if strings.HasPrefix(u.Path, "/shorts/") {
		return segments[2]
	}
	return u.Query().Get("v")
}

// TranscriptFilename is used when the webhook returns inline content without a file name.
func TranscriptFilename(title string, t *Transcript, now time.Time) string {
	if t != nil && t.File != nil && t.File.Filename != "" {
		return t.File.Filename
	}
	if title == "" {
		title = "youtube"
	}
	title = unsafeFilenameChars.ReplaceAllString(title, "_")

	lang := "ko"
	if t != nil {
		switch {
		case t.Bilingual && t.PrimaryLanguage != "":
			lang = t.PrimaryLanguage + "-ko"
		case t.Bilingual:
			lang = "en-ko"
		case t.PrimaryLanguage != "":
			lang = t.PrimaryLanguage
		}
	}
	return fmt.Sprintf("%s__script__%s__%s.txt", title, lang, now.UTC().Format(transcriptTimeLayout))
}
