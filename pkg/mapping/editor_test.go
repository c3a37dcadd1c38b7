package mapping

import (
	"errors"
	"testing"

	"github.com/devicelab-dev/casesheet/pkg/core"
)

func TestEditor_StartsFromMapping(t *testing.T) {
	m := Mapping{{"ID", "Key"}, {"Name", "Gone"}}
	e := NewEditor(m, []string{"Key", "Title", "Key"})

	if got := e.Options(); len(got) != 3 || got[0] != "" || got[1] != "Key" || got[2] != "Title" {
		t.Errorf("Options() = %q", got)
	}
	rows := e.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Header != "" {
		t.Errorf("header not on offer should start unmapped, got %q", rows[1].Header)
	}
}

func TestEditor_NoSheetOffersMappingHeaders(t *testing.T) {
	e := NewEditor(Mapping{{"ID", "Key"}, {"Owner", ""}}, nil)
	if got := e.Headers(); len(got) != 1 || got[0] != "Key" {
		t.Errorf("Headers() = %q", got)
	}

	empty := NewEditor(nil, nil)
	if got := empty.Options(); len(got) != 1 || got[0] != "" {
		t.Errorf("Options() = %q, want only the none option", got)
	}
}

func TestEditor_AddRenameChooseRemove(t *testing.T) {
	e := NewEditor(Mapping{{"ID", "Key"}}, []string{"Key", "Title", "Steps"})

	e.AddField("")
	if err := e.RenameField(1, "  Summary "); err != nil {
		t.Fatal(err)
	}
	if err := e.Choose(1, "Title"); err != nil {
		t.Fatal(err)
	}
	e.AddField("Test Steps")
	if err := e.Choose(2, "Steps"); err != nil {
		t.Fatal(err)
	}
	if err := e.RemoveField(0); err != nil {
		t.Fatal(err)
	}

	want := Mapping{{"Summary", "Title"}, {"Test Steps", "Steps"}}
	if got := e.Mapping(); !got.Equal(want) {
		t.Errorf("Mapping() = %+v, want %+v", got, want)
	}
}

func TestEditor_ChooseUnknownHeader(t *testing.T) {
	e := NewEditor(Mapping{{"ID", ""}}, []string{"Key"})
	err := e.Choose(0, "Nope")
	if !errors.Is(err, core.ErrUnknownHeader) {
		t.Errorf("expected ErrUnknownHeader, got %v", err)
	}
	if err := e.Choose(0, ""); err != nil {
		t.Errorf("choosing none should succeed: %v", err)
	}
}

func TestEditor_OutOfRange(t *testing.T) {
	e := NewEditor(nil, []string{"Key"})
	if err := e.RemoveField(0); err == nil {
		t.Error("expected error removing from empty editor")
	}
	if err := e.RenameField(-1, "x"); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestEditor_BlankRowsDropped(t *testing.T) {
	e := NewEditor(Mapping{{"ID", "Key"}}, []string{"Key"})
	e.AddField("")
	if got := e.Mapping(); len(got) != 1 {
		t.Errorf("blank field should be dropped, got %+v", got)
	}
}
