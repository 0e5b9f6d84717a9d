package journal

import (
	"regexp"
	"strings"
)

type UserConfig struct {
	Name        string `json:"name"`
	NotionKey   string `json:"notion_key"`
	NotionDB    string `json:"notion_db"`
	ReportTime  string `json:"report_time"`
	BubbleColor string `json:"bubbleColor,omitempty"`
}

const notionKeyPrefix = "ntn_"

var (
	reportTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
	notionDBPattern   = regexp.MustCompile(`^[a-zA-Z0-9]{32}$`)
)

// ValidationErrors maps a JSON field name to a human readable reason.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, field := range []string{"name", "notion_key", "notion_db", "report_time"} {
		if msg, ok := e[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return "invalid user config: " + strings.Join(parts, "; ")
}

// Validate reports every failing field at once; it returns nil when the config is usable.
func (c UserConfig) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "name is required"
	}
	if !strings.HasPrefix(c.NotionKey, notionKeyPrefix) {
		errs["notion_key"] = `notion api key must start with "ntn_"`
	}
	if !notionDBPattern.MatchString(strings.ReplaceAll(c.NotionDB, "-", "")) {
		errs["notion_db"] = "notion database id must be 32 alphanumeric characters"
	}
	if !reportTimePattern.MatchString(c.ReportTime) {
		errs["report_time"] = "report time must be HH:mm (e.g. 22:00)"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
