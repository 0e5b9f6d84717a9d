package journal

import (
	"errors"
	"testing"
	"time"
)

func validUserConfig() UserConfig {
	return UserConfig{
		Name:       "Mina",
		NotionKey:  "ntn_abc",
		NotionDB:   "0123abcd-0123-abcd-0123-0123abcd0123",
		ReportTime: "22:00",
	}
}

func TestUserConfigValidate_Valid(t *testing.T) {
	if err := validUserConfig().Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestUserConfigValidate_ReportsEveryField(t *testing.T) {
	err := UserConfig{Name: "  ", NotionKey: "secret_abc", NotionDB: "short", ReportTime: "25:00"}.Validate()
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	for _, field := range []string{"name", "notion_key", "notion_db", "report_time"} {
		if _, ok := verrs[field]; !ok {
			t.Errorf("expected error for %s, got %v", field, verrs)
		}
	}
}

func TestUserConfigValidate_NotionDBIgnoresDashes(t *testing.T) {
	cfg := validUserConfig()
	cfg.NotionDB = "0123abcd0123abcd0123abcd0123abcd"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	cfg.NotionDB = "0123abcd0123abcd0123abcd0123abc!"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non alphanumeric id")
	}
}

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 1, 1, 21, 59, 0, 0, time.FixedZone("KST", 9*3600))
	m := NewMessage(AuthorUser, "hello", at)
	if m.ID == "" {
		t.Fatal("expected generated id")
	}
	if m.Timestamp != "2024-01-01T12:59:00Z" {
		t.Fatalf("unexpected timestamp: %s", m.Timestamp)
	}
	if other := NewMessage(AuthorUser, "hello", at); other.ID == m.ID {
		t.Fatal("expected unique ids")
	}
	sys := NewSystemMessage("done", "https://notion.so/x", at)
	if sys.Author != AuthorSystem || sys.NotionURL != "https://notion.so/x" {
		t.Fatalf("unexpected system message: %+v", sys)
	}
}
