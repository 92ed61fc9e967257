package service

import (
	"testing"

	"sumaichat/internal/model"
)

func TestSessionStore_GetOrCreate(t *testing.T) {
	store := NewSessionStore()

	sess := store.GetOrCreate("")
	if sess == nil || sess.ID == "" {
		t.Fatal("Expected a fresh session for empty id")
	}

	same := store.GetOrCreate(sess.ID)
	if same != sess {
		t.Error("Expected the same session for a known id")
	}

	other := store.GetOrCreate("no-such-session")
	if other == sess {
		t.Error("Expected a fresh session for an unknown id")
	}

	if got := len(store.List()); got != 2 {
		t.Errorf("Expected 2 sessions listed, got %d", got)
	}
}

func TestSession_MessagesAreCopied(t *testing.T) {
	store := NewSessionStore()
	sess := store.Create()

	sess.AppendMessage(model.RoleUser, "こんにちは")
	msgs := sess.Messages()
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 message, got %d", len(msgs))
	}

	msgs[0].Content = "tampered"
	if sess.Messages()[0].Content != "こんにちは" {
		t.Error("Expected history to be isolated from returned copies")
	}
}

func TestSession_MergeConstraintsPreservesArea(t *testing.T) {
	store := NewSessionStore()
	sess := store.Create()

	_, _, _ = sess.ReduceMessage("東京都世田谷区の物件")

	min := 10000000
	filter := sess.MergeConstraints(&min, nil, nil)
	if filter.Area != "東京都世田谷区" {
		t.Errorf("Expected area preserved, got %q", filter.Area)
	}
	if filter.MinPrice == nil || *filter.MinPrice != min {
		t.Error("Expected min price installed")
	}
	if filter.MaxPrice != nil {
		t.Error("Expected nil max price untouched")
	}
}

func TestFileStore_SaveAndDetectType(t *testing.T) {
	files := NewFileStore()

	tests := []struct {
		filename string
		want     model.FileType
	}{
		{"floorplan.PNG", model.FileTypeImage},
		{"contract.pdf", model.FileTypePDF},
		{"notes.txt", model.FileTypeOther},
		{"noextension", model.FileTypeOther},
	}

	for _, tt := range tests {
		info := files.Save(tt.filename, 1024, "sess-1")
		if info.FileType != tt.want {
			t.Errorf("Save(%q): expected type %s, got %s", tt.filename, tt.want, info.FileType)
		}
		stored, ok := files.Get(info.FileID)
		if !ok || stored.Filename != tt.filename {
			t.Errorf("Expected %q retrievable by id", tt.filename)
		}
	}
}
